package sdk

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardClientRoutes(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Write([]byte(`{"data":{"id":"c1","urlCode":"3fa09c21"}}`))
	}))
	defer srv.Close()

	cards := NewCardClient(NewGateway(seededSession(srv.URL)))
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		body   string
	}{
		{
			name:   "get",
			call:   func() error { _, err := cards.Get(ctx, "3fa09c21"); return err },
			method: http.MethodGet,
			path:   "/business-cards/3fa09c21",
		},
		{
			name:   "update",
			call:   func() error { _, err := cards.Update(ctx, "3fa09c21", map[string]string{"name": "Pat"}); return err },
			method: http.MethodPut,
			path:   "/business-cards/update/3fa09c21",
			body:   `{"details":{"name":"Pat"}}`,
		},
		{
			name:   "activate",
			call:   func() error { _, err := cards.Activate(ctx, "3fa09c21"); return err },
			method: http.MethodPut,
			path:   "/business-cards/activate/3fa09c21",
		},
		{
			name:   "deactivate",
			call:   func() error { _, err := cards.Deactivate(ctx, "3fa09c21"); return err },
			method: http.MethodPut,
			path:   "/business-cards/deactivate/3fa09c21",
		},
		{
			name:   "reassign",
			call:   func() error { _, err := cards.Reassign(ctx, "3fa09c21", "u2"); return err },
			method: http.MethodPut,
			path:   "/business-cards/reassign/3fa09c21",
			body:   `{"newUserId":"u2"}`,
		},
		{
			name:   "set url code",
			call:   func() error { _, err := cards.SetURLCode(ctx, "c1", "pat-smith"); return err },
			method: http.MethodPut,
			path:   "/business-cards/url-code/c1",
			body:   `{"newUrlCode":"pat-smith"}`,
		},
		{
			name:   "delete",
			call:   func() error { return cards.Delete(ctx, "c1") },
			method: http.MethodDelete,
			path:   "/business-cards/delete/c1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			assert.Equal(t, tt.method, gotMethod)
			assert.Equal(t, tt.path, gotPath)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, gotBody)
			}
		})
	}
}

func TestCreateRejectsNonPositiveCount(t *testing.T) {
	transport := &deadTransport{}
	session := NewSessionManager("http://tapcard.invalid",
		WithHTTPClient(&http.Client{Transport: transport}))
	session.creds = &Credentials{AccessToken: "tok"}
	cards := NewCardClient(NewGateway(session))

	for _, count := range []int{0, -3} {
		_, err := cards.Create(context.Background(), count)
		require.True(t, IsValidation(err), "count %d: got %v", count, err)
	}
	assert.EqualValues(t, 0, transport.calls)
}

func TestCreateSendsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"count":3}`, string(raw))
		w.Write([]byte(`{"data":[{"id":"c1"},{"id":"c2"},{"id":"c3"}]}`))
	}))
	defer srv.Close()

	cards := NewCardClient(NewGateway(seededSession(srv.URL)))
	created, err := cards.Create(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, created, 3)
}
