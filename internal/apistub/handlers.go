package apistub

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/tapcard/tapcard/pkg/sdk"
)

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

func decodeBody(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(r, &input) || input.Email == "" {
		writeMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.byEmail[input.Email]
	if !ok || s.accounts[userID].Password != input.Password {
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	s.writeSession(w, s.accounts[userID])
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(r, &input) || input.Username == "" || input.Email == "" || input.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[input.Email]; exists {
		writeMessage(w, http.StatusConflict, "email already registered")
		return
	}
	acct := &account{
		User: sdk.User{
			ID:       uuid.NewString(),
			Username: input.Username,
			Email:    input.Email,
			Role:     sdk.RoleMember,
		},
		Password: input.Password,
	}
	s.accounts[acct.User.ID] = acct
	s.byEmail[input.Email] = acct.User.ID
	s.writeSession(w, acct)
}

// writeSession mints a token pair and writes the login/register payload.
// Caller must hold s.mu.
func (s *Server) writeSession(w http.ResponseWriter, acct *account) {
	access, err := s.mintAccessToken(acct.User.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "token minting failed")
		return
	}
	refresh := s.issueRefreshToken(acct.User.ID)
	writeData(w, http.StatusOK, map[string]any{
		"user":          acct.User,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.refreshCalls, 1)

	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeBody(r, &input) || input.RefreshToken == "" {
		writeMessage(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	s.mu.Lock()
	delay := s.refreshDelay
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.refreshTokens[input.RefreshToken]
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "refresh token is invalid")
		return
	}
	access, err := s.mintAccessToken(userID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "token minting failed")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"access_token": access})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.currentAccount(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unknown identity")
		return
	}
	s.mu.Lock()
	for token, userID := range s.refreshTokens {
		if userID == acct.User.ID {
			delete(s.refreshTokens, token)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.currentAccount(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unknown identity")
		return
	}
	writeData(w, http.StatusOK, acct.User)
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeData(w, http.StatusOK, s.listCards())
}

func (s *Server) handleListOwn(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.currentAccount(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unknown identity")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	own := make([]sdk.Card, 0)
	for _, card := range s.listCards() {
		if card.AssignedTo == acct.User.ID {
			own = append(own, card)
		}
	}
	writeData(w, http.StatusOK, own)
}

func (s *Server) handleNonAdminUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]sdk.User, 0)
	for _, acct := range s.accounts {
		if acct.User.Role != sdk.RoleAdmin {
			users = append(users, acct.User)
		}
	}
	writeData(w, http.StatusOK, users)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	var input struct {
		Count int `json:"count"`
	}
	if !decodeBody(r, &input) || input.Count < 1 {
		writeMessage(w, http.StatusBadRequest, "count must be at least 1")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]sdk.Card, 0, input.Count)
	for i := 0; i < input.Count; i++ {
		cards = append(cards, *s.insertCard(""))
	}
	writeData(w, http.StatusCreated, cards)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.currentAccount(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unknown identity")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card := s.findCardByCode(chi.URLParam(r, "urlCode"))
	if card == nil {
		writeMessage(w, http.StatusNotFound, "card not found")
		return
	}
	if !acct.User.IsAdmin() && card.AssignedTo != acct.User.ID {
		writeMessage(w, http.StatusForbidden, "card is not assigned to you")
		return
	}
	writeData(w, http.StatusOK, card)
}

// mutateByCode runs fn against the card addressed by the urlCode route
// param, enforcing the holder-or-admin rule shared by the detail, url
// code and activation endpoints.
func (s *Server) mutateByCode(w http.ResponseWriter, r *http.Request, fn func(card *sdk.Card) (int, string)) {
	acct, ok := s.currentAccount(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unknown identity")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card := s.findCardByCode(chi.URLParam(r, "urlCode"))
	if card == nil {
		writeMessage(w, http.StatusNotFound, "card not found")
		return
	}
	if !acct.User.IsAdmin() && card.AssignedTo != acct.User.ID {
		writeMessage(w, http.StatusForbidden, "card is not assigned to you")
		return
	}
	if status, msg := fn(card); msg != "" {
		writeMessage(w, status, msg)
		return
	}
	card.UpdatedAt = time.Now().UTC()
	writeData(w, http.StatusOK, card)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Details map[string]string `json:"details"`
	}
	if !decodeBody(r, &input) {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mutateByCode(w, r, func(card *sdk.Card) (int, string) {
		card.Details = input.Details
		return 0, ""
	})
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	s.mutateByCode(w, r, func(card *sdk.Card) (int, string) {
		if !card.IsActive {
			card.IsActive = true
			// The start date is recorded on the first activation only and
			// survives later deactivations.
			if card.StartDate == nil {
				now := time.Now().UTC()
				card.StartDate = &now
			}
		}
		return 0, ""
	})
}

func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	s.mutateByCode(w, r, func(card *sdk.Card) (int, string) {
		card.IsActive = false
		return 0, ""
	})
}

func (s *Server) handleReassign(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	var input struct {
		NewUserID string `json:"newUserId"`
	}
	if !decodeBody(r, &input) || input.NewUserID == "" {
		writeMessage(w, http.StatusBadRequest, "newUserId is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card := s.findCardByCode(chi.URLParam(r, "urlCode"))
	if card == nil {
		writeMessage(w, http.StatusNotFound, "card not found")
		return
	}
	if _, exists := s.accounts[input.NewUserID]; !exists {
		writeMessage(w, http.StatusNotFound, "user not found")
		return
	}
	card.AssignedTo = input.NewUserID
	card.UpdatedAt = time.Now().UTC()
	writeData(w, http.StatusOK, card)
}

func (s *Server) handleSetURLCode(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.currentAccount(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unknown identity")
		return
	}
	var input struct {
		NewURLCode string `json:"newUrlCode"`
	}
	if !decodeBody(r, &input) || input.NewURLCode == "" {
		writeMessage(w, http.StatusBadRequest, "newUrlCode is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card, exists := s.cards[chi.URLParam(r, "cardID")]
	if !exists {
		writeMessage(w, http.StatusNotFound, "card not found")
		return
	}
	if !acct.User.IsAdmin() && card.AssignedTo != acct.User.ID {
		writeMessage(w, http.StatusForbidden, "card is not assigned to you")
		return
	}
	if s.codeInUse(input.NewURLCode, card.ID) {
		writeMessage(w, http.StatusConflict, "url code already in use")
		return
	}
	card.CustomURLCode = input.NewURLCode
	card.UpdatedAt = time.Now().UTC()
	writeData(w, http.StatusOK, card)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "cardID")
	if _, exists := s.cards[id]; !exists {
		writeMessage(w, http.StatusNotFound, "card not found")
		return
	}
	s.removeCard(id)
	writeData(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (*account, bool) {
	acct, ok := s.currentAccount(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unknown identity")
		return nil, false
	}
	if !acct.User.IsAdmin() {
		writeMessage(w, http.StatusForbidden, "admin role required")
		return nil, false
	}
	return acct, true
}
