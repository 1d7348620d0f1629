package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// SessionManager is the single source of truth for the authenticated
// identity and the token pair behind it. It is the only component that
// writes credentials; everything else reads them through its accessors.
type SessionManager struct {
	baseURL string
	http    *http.Client
	store   CredentialStore
	log     logrus.FieldLogger

	refreshGroup singleflight.Group

	mu    sync.RWMutex
	creds *Credentials
	user  *User
	gen   uint64 // bumped on logout so a late refresh cannot re-establish a session
}

// SessionOption configures SessionManager construction.
type SessionOption func(*SessionManager)

// WithHTTPClient overrides the HTTP client used for auth endpoint calls.
func WithHTTPClient(client *http.Client) SessionOption {
	return func(s *SessionManager) { s.http = client }
}

// WithCredentialStore sets the durable store for the token pair.
// A MemoryStore is used when none is supplied.
func WithCredentialStore(store CredentialStore) SessionOption {
	return func(s *SessionManager) { s.store = store }
}

// WithLogger enables SDK logging. The SDK is silent by default.
func WithLogger(log logrus.FieldLogger) SessionOption {
	return func(s *SessionManager) { s.log = log }
}

// NewSessionManager creates a session manager for the API at baseURL.
func NewSessionManager(baseURL string, opts ...SessionOption) *SessionManager {
	s := &SessionManager{baseURL: trimBaseURL(baseURL)}
	for _, opt := range opts {
		opt(s)
	}
	if s.http == nil {
		s.http = &http.Client{Timeout: 10 * time.Second}
	}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	if s.log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		s.log = quiet
	}
	return s
}

// BaseURL returns the configured API base URL.
func (s *SessionManager) BaseURL() string { return s.baseURL }

// Initialize resolves the current identity from stored credentials. When
// the stored access token is rejected it attempts exactly one refresh
// cycle and retries identity resolution once; if that also fails the
// session ends logged out and Initialize returns nil. Failures unrelated
// to token validity (unreachable server, broken store) are returned.
func (s *SessionManager) Initialize(ctx context.Context) error {
	creds, err := s.store.LoadCredentials()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if creds.Empty() {
		return nil
	}

	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()

	user, err := s.fetchCurrentUser(ctx)
	if err == nil {
		s.setUser(user)
		return nil
	}
	if !IsKind(err, KindTokenExpired) {
		return err
	}

	s.log.Debug("stored access token rejected, attempting refresh")
	if _, err := s.Refresh(ctx); err != nil {
		// Refresh already cleared local state.
		return nil
	}
	user, err = s.fetchCurrentUser(ctx)
	if err != nil {
		s.forceLogout()
		return nil
	}
	s.setUser(user)
	return nil
}

// Login exchanges credentials for a fresh token pair and identity.
func (s *SessionManager) Login(ctx context.Context, input LoginInput) (*User, error) {
	var payload sessionPayload
	err := doJSON(ctx, s.http, http.MethodPost, s.baseURL+"/users/login", "", input, &payload)
	if err != nil {
		return nil, rejectedCredentials(err)
	}
	return s.establish(payload), nil
}

// Register creates an identity and auto-authenticates it.
func (s *SessionManager) Register(ctx context.Context, input RegisterInput) (*User, error) {
	var payload sessionPayload
	err := doJSON(ctx, s.http, http.MethodPost, s.baseURL+"/users/register", "", input, &payload)
	if err != nil {
		return nil, rejectedCredentials(err)
	}
	return s.establish(payload), nil
}

// Logout invalidates the session server-side on a best-effort basis and
// unconditionally clears local state. It never fails.
func (s *SessionManager) Logout(ctx context.Context) {
	if token := s.AccessToken(); token != "" {
		if err := doJSON(ctx, s.http, http.MethodPost, s.baseURL+"/users/logout", token, nil, nil); err != nil {
			s.log.WithError(err).Debug("server-side logout failed")
		}
	}
	s.forceLogout()
}

// Refresh exchanges the refresh token for a new access token. Concurrent
// callers while an exchange is in flight observe the same outcome rather
// than issuing duplicate refresh calls. On failure the local token pair
// is cleared; a stale refresh token is never retried silently.
func (s *SessionManager) Refresh(ctx context.Context) (string, error) {
	token, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		return s.refreshOnce(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (s *SessionManager) refreshOnce(ctx context.Context) (string, error) {
	s.mu.RLock()
	creds := s.creds.clone()
	gen := s.gen
	s.mu.RUnlock()

	if creds == nil || creds.RefreshToken == "" {
		s.forceLogoutFrom(gen)
		return "", &Error{Kind: KindRefreshFailed, Message: "no refresh token held"}
	}

	var payload refreshPayload
	body := map[string]string{"refreshToken": creds.RefreshToken}
	err := doJSON(ctx, s.http, http.MethodPost, s.baseURL+"/users/refresh-token", creds.AccessToken, body, &payload)
	if err == nil && payload.AccessToken == "" {
		err = &Error{Kind: KindNetwork, Message: "refresh response carried no access token"}
	}
	if err != nil {
		s.forceLogoutFrom(gen)
		return "", &Error{Kind: KindRefreshFailed, Message: "refresh rejected", Err: err}
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return "", &Error{Kind: KindRefreshFailed, Message: "session ended during refresh"}
	}
	creds.AccessToken = payload.AccessToken
	creds.IssuedAt = time.Now()
	s.creds = creds
	s.mu.Unlock()

	if err := s.store.SaveCredentials(creds); err != nil {
		s.log.WithError(err).Warn("persist refreshed credentials")
	}
	return payload.AccessToken, nil
}

// CurrentUser returns the authenticated identity, if any. The value
// reflects the session at call time; re-read it rather than caching.
func (s *SessionManager) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsAdmin reports whether the current identity carries the admin role.
func (s *SessionManager) IsAdmin() bool {
	user, ok := s.CurrentUser()
	return ok && user.IsAdmin()
}

// IsAuthenticated reports whether a token pair is currently held.
func (s *SessionManager) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.creds.Empty()
}

// AccessToken returns the current bearer token, or "" when logged out.
func (s *SessionManager) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.AccessToken
}

// IssuedAt returns when the current access token was issued.
func (s *SessionManager) IssuedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return time.Time{}, false
	}
	return s.creds.IssuedAt, true
}

func (s *SessionManager) fetchCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := doJSON(ctx, s.http, http.MethodGet, s.baseURL+"/users/current-user", s.AccessToken(), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SessionManager) establish(payload sessionPayload) *User {
	creds := &Credentials{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		IssuedAt:     time.Now(),
	}
	user := payload.User

	s.mu.Lock()
	s.creds = creds
	s.user = &user
	s.mu.Unlock()

	if err := s.store.SaveCredentials(creds); err != nil {
		s.log.WithError(err).Warn("persist credentials")
	}
	return &user
}

func (s *SessionManager) setUser(user *User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *SessionManager) forceLogout() {
	s.mu.Lock()
	s.gen++
	s.creds = nil
	s.user = nil
	s.mu.Unlock()
	if err := s.store.DeleteCredentials(); err != nil {
		s.log.WithError(err).Warn("clear stored credentials")
	}
}

// forceLogoutFrom clears the session only when no logout has happened
// since the caller observed generation gen.
func (s *SessionManager) forceLogoutFrom(gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.creds = nil
	s.user = nil
	s.mu.Unlock()
	if err := s.store.DeleteCredentials(); err != nil {
		s.log.WithError(err).Warn("clear stored credentials")
	}
}

// rejectedCredentials rewrites 4xx login/register failures to
// KindInvalidCredentials so callers see one kind for rejected attempts.
func rejectedCredentials(err error) error {
	if apiErr := asError(err); apiErr != nil && apiErr.Status >= 400 && apiErr.Status < 500 {
		return &Error{Kind: KindInvalidCredentials, Message: apiErr.Message, Status: apiErr.Status}
	}
	return err
}
