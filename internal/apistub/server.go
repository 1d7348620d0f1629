// Package apistub is an in-memory implementation of the tapcard REST
// contract. It backs the SDK integration tests and the tapsim binary;
// it is not a production server and keeps no state across restarts.
package apistub

import (
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tapcard/tapcard/pkg/sdk"
)

type account struct {
	User     sdk.User
	Password string
}

// Server holds the in-memory resource state and the HTTP router.
type Server struct {
	log       logrus.FieldLogger
	tokenAuth *jwtauth.JWTAuth
	router    chi.Router

	mu            sync.Mutex
	accessTTL     time.Duration
	refreshDelay  time.Duration
	accounts      map[string]*account // by user id
	byEmail       map[string]string   // email -> user id
	cards         map[string]*sdk.Card
	cardOrder     []string
	refreshTokens map[string]string // opaque refresh token -> user id

	refreshCalls int64 // atomic
}

// Option configures Server construction.
type Option func(*Server)

// WithAccessTTL sets the lifetime of minted access tokens. A negative
// value mints already-expired tokens, which tests use to force the
// refresh path.
func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Server) { s.accessTTL = ttl }
}

// WithLogger enables request logging.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) { s.log = log }
}

// New creates a stub server with an empty resource set.
func New(opts ...Option) *Server {
	s := &Server{
		accessTTL:     15 * time.Minute,
		accounts:      make(map[string]*account),
		byEmail:       make(map[string]string),
		cards:         make(map[string]*sdk.Card),
		refreshTokens: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		s.log = quiet
	}
	s.tokenAuth = jwtauth.New("HS256", []byte(uuid.NewString()), nil)
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(30, time.Minute))
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
		})
		r.Post("/refresh-token", s.handleRefresh)
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(s.tokenAuth))
			r.Use(jwtauth.Authenticator)
			r.Post("/logout", s.handleLogout)
			r.Get("/current-user", s.handleCurrentUser)
		})
	})

	r.Route("/business-cards", func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.tokenAuth))
		r.Use(jwtauth.Authenticator)
		r.Get("/all", s.handleListAll)
		r.Get("/user", s.handleListOwn)
		r.Get("/non-admin-users", s.handleNonAdminUsers)
		r.Post("/create", s.handleCreate)
		r.Put("/update/{urlCode}", s.handleUpdate)
		r.Put("/activate/{urlCode}", s.handleActivate)
		r.Put("/deactivate/{urlCode}", s.handleDeactivate)
		r.Put("/reassign/{urlCode}", s.handleReassign)
		r.Put("/url-code/{cardID}", s.handleSetURLCode)
		r.Delete("/delete/{cardID}", s.handleDelete)
		r.Get("/{urlCode}", s.handleGet)
	})

	s.router = r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Info("request")
	})
}

// SeedAdmin registers an admin account directly in the store.
func (s *Server) SeedAdmin(username, email, password string) sdk.User {
	return s.seedAccount(username, email, password, sdk.RoleAdmin)
}

// SeedMember registers a member account directly in the store.
func (s *Server) SeedMember(username, email, password string) sdk.User {
	return s.seedAccount(username, email, password, sdk.RoleMember)
}

func (s *Server) seedAccount(username, email, password string, role sdk.Role) sdk.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := sdk.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Role:     role,
	}
	s.accounts[user.ID] = &account{User: user, Password: password}
	s.byEmail[email] = user.ID
	return user
}

// SeedCards inserts count cards, optionally pre-assigned to a user id.
func (s *Server) SeedCards(count int, assignedTo string) []sdk.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]sdk.Card, 0, count)
	for i := 0; i < count; i++ {
		card := s.insertCard(assignedTo)
		cards = append(cards, *card)
	}
	return cards
}

// SetAccessTTL changes the lifetime for tokens minted from now on.
func (s *Server) SetAccessTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTTL = ttl
}

// SetRefreshDelay makes the refresh endpoint sleep before answering,
// widening the window in which concurrent 401s pile onto one refresh.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// RefreshCalls returns how many refresh-token requests were served.
func (s *Server) RefreshCalls() int64 {
	return atomic.LoadInt64(&s.refreshCalls)
}

// RevokeRefreshTokens invalidates every outstanding refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens = make(map[string]string)
}
