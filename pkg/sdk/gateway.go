package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Gateway is the transport boundary between the typed clients and the
// network. It attaches the session's access token to every call and
// resolves at most one refresh+retry cycle when the token is rejected.
type Gateway struct {
	baseURL string
	http    *http.Client
	session *SessionManager
}

// NewGateway creates a gateway bound to the given session. It shares the
// session's base URL and HTTP client so both sides observe one transport
// configuration.
func NewGateway(session *SessionManager) *Gateway {
	return &Gateway{
		baseURL: session.baseURL,
		http:    session.http,
		session: session,
	}
}

// Do executes one API call. On a 401 it asks the session for a refreshed
// token and retries the original call exactly once; if the refresh fails
// the failure surfaces as KindAuth. Every other failure is mapped to the
// taxonomy and surfaced unmodified.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	err := doJSON(ctx, g.http, method, g.baseURL+path, g.session.AccessToken(), body, out)
	if !isUnauthorized(err) {
		return err
	}

	token, refreshErr := g.session.Refresh(ctx)
	if refreshErr != nil {
		return &Error{Kind: KindAuth, Message: "authentication failed", Status: http.StatusUnauthorized, Err: refreshErr}
	}

	err = doJSON(ctx, g.http, method, g.baseURL+path, token, body, out)
	if isUnauthorized(err) {
		// The retried call was rejected even with a fresh token; do not
		// retry again.
		return &Error{Kind: KindAuth, Message: "authentication failed after refresh", Status: http.StatusUnauthorized, Err: err}
	}
	return err
}

func isUnauthorized(err error) bool {
	apiErr := asError(err)
	return apiErr != nil && apiErr.Status == http.StatusUnauthorized
}

// doJSON executes a single JSON round-trip against rawURL. It attaches
// token as a bearer credential when non-empty, decodes the `{data}`
// envelope into out, and maps non-2xx statuses to the error taxonomy.
func doJSON(ctx context.Context, client *http.Client, method, rawURL, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "encode request body", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg apiMessage
		_ = json.Unmarshal(raw, &msg)
		return errorFromStatus(resp.StatusCode, msg.text())
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{Kind: KindNetwork, Message: "decode response envelope", Err: err}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: KindNetwork, Message: "decode response payload", Err: err}
	}
	return nil
}

func trimBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
