package sdk

import (
	"context"
	"net/http"
)

// CardClient provides the typed operations over the card resource. Each
// operation is a thin mapping from intent to a network call through the
// Gateway; authorization rules live in AccessController, not here.
type CardClient struct {
	gw *Gateway
}

// NewCardClient creates a card client on top of gw.
func NewCardClient(gw *Gateway) *CardClient {
	return &CardClient{gw: gw}
}

// ListAll returns every card. Admin only; the server rejects others.
func (c *CardClient) ListAll(ctx context.Context) ([]Card, error) {
	var cards []Card
	if err := c.gw.Do(ctx, http.MethodGet, "/business-cards/all", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ListOwn returns the cards assigned to the current identity.
func (c *CardClient) ListOwn(ctx context.Context) ([]Card, error) {
	var cards []Card
	if err := c.gw.Do(ctx, http.MethodGet, "/business-cards/user", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// NonAdminUsers returns the identities eligible to hold a card, used to
// populate reassignment choices. Admin only.
func (c *CardClient) NonAdminUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.gw.Do(ctx, http.MethodGet, "/business-cards/non-admin-users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create creates count unassigned, inactive cards with generated url
// codes. count must be at least 1; this is checked before any network call.
func (c *CardClient) Create(ctx context.Context, count int) ([]Card, error) {
	if count < 1 {
		return nil, &Error{Kind: KindValidation, Message: "count must be at least 1"}
	}
	var cards []Card
	body := map[string]int{"count": count}
	if err := c.gw.Do(ctx, http.MethodPost, "/business-cards/create", body, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// Get fetches a single card by url code (server-assigned or custom).
func (c *CardClient) Get(ctx context.Context, urlCode string) (*Card, error) {
	var card Card
	if err := c.gw.Do(ctx, http.MethodGet, "/business-cards/"+urlCode, nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Update replaces the card's free-form contact details.
func (c *CardClient) Update(ctx context.Context, urlCode string, details map[string]string) (*Card, error) {
	var card Card
	body := map[string]any{"details": details}
	if err := c.gw.Do(ctx, http.MethodPut, "/business-cards/update/"+urlCode, body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Activate turns the card on. The server records the start date on the
// first activation only.
func (c *CardClient) Activate(ctx context.Context, urlCode string) (*Card, error) {
	var card Card
	if err := c.gw.Do(ctx, http.MethodPut, "/business-cards/activate/"+urlCode, nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Deactivate turns the card off. The start date is not cleared.
func (c *CardClient) Deactivate(ctx context.Context, urlCode string) (*Card, error) {
	var card Card
	if err := c.gw.Do(ctx, http.MethodPut, "/business-cards/deactivate/"+urlCode, nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Reassign moves the card to another identity. Admin only.
func (c *CardClient) Reassign(ctx context.Context, urlCode, newUserID string) (*Card, error) {
	var card Card
	body := map[string]string{"newUserId": newUserID}
	if err := c.gw.Do(ctx, http.MethodPut, "/business-cards/reassign/"+urlCode, body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// SetURLCode assigns a custom url code to the card identified by its id.
// A KindConflict error means the code is already in use and the caller
// should prompt for a different one; the card's prior url code stays valid.
func (c *CardClient) SetURLCode(ctx context.Context, cardID, newURLCode string) (*Card, error) {
	var card Card
	body := map[string]string{"newUrlCode": newURLCode}
	if err := c.gw.Do(ctx, http.MethodPut, "/business-cards/url-code/"+cardID, body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Delete removes the card permanently. Admin only. Subsequent lookups by
// id or url code fail with KindNotFound.
func (c *CardClient) Delete(ctx context.Context, cardID string) error {
	return c.gw.Do(ctx, http.MethodDelete, "/business-cards/delete/"+cardID, nil, nil)
}
