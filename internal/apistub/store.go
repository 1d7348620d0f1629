package apistub

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"

	"github.com/tapcard/tapcard/pkg/sdk"
)

// insertCard adds an inactive, detail-less card with a generated url
// code. Caller must hold s.mu.
func (s *Server) insertCard(assignedTo string) *sdk.Card {
	now := time.Now().UTC()
	card := &sdk.Card{
		ID:         uuid.NewString(),
		URLCode:    s.generateURLCode(),
		IsActive:   false,
		AssignedTo: assignedTo,
		Details:    map[string]string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.cards[card.ID] = card
	s.cardOrder = append(s.cardOrder, card.ID)
	return card
}

// generateURLCode returns a short code unused by any card. Caller must
// hold s.mu.
func (s *Server) generateURLCode() string {
	for {
		code := uuid.NewString()[:8]
		if !s.codeInUse(code, "") {
			return code
		}
	}
}

// codeInUse reports whether code collides with any card's url code or
// custom url code, ignoring the card with id exceptID. Caller must hold s.mu.
func (s *Server) codeInUse(code, exceptID string) bool {
	for id, card := range s.cards {
		if id == exceptID {
			continue
		}
		if card.URLCode == code || (card.CustomURLCode != "" && card.CustomURLCode == code) {
			return true
		}
	}
	return false
}

// findCardByCode resolves a card by its server-assigned or custom url
// code. Caller must hold s.mu.
func (s *Server) findCardByCode(code string) *sdk.Card {
	for _, card := range s.cards {
		if card.URLCode == code || (card.CustomURLCode != "" && card.CustomURLCode == code) {
			return card
		}
	}
	return nil
}

// listCards returns every card in insertion order. Caller must hold s.mu.
func (s *Server) listCards() []sdk.Card {
	cards := make([]sdk.Card, 0, len(s.cardOrder))
	for _, id := range s.cardOrder {
		if card, ok := s.cards[id]; ok {
			cards = append(cards, *card)
		}
	}
	return cards
}

// removeCard deletes a card permanently. Caller must hold s.mu.
func (s *Server) removeCard(id string) {
	delete(s.cards, id)
	for i, cardID := range s.cardOrder {
		if cardID == id {
			s.cardOrder = append(s.cardOrder[:i], s.cardOrder[i+1:]...)
			break
		}
	}
}

// mintAccessToken issues a signed JWT for the user. Caller must hold s.mu.
func (s *Server) mintAccessToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := map[string]interface{}{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.accessTTL).Unix(),
	}
	_, token, err := s.tokenAuth.Encode(claims)
	return token, err
}

// issueRefreshToken mints an opaque refresh token. Caller must hold s.mu.
func (s *Server) issueRefreshToken(userID string) string {
	token := uuid.NewString()
	s.refreshTokens[token] = userID
	return token
}

// currentAccount resolves the authenticated account from the verified
// JWT claims placed in the request context by the jwtauth middleware.
func (s *Server) currentAccount(r *http.Request) (*account, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return nil, false
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[userID]
	return acct, ok
}
