package sdk

import "context"

// Action enumerates the card transitions subject to authorization.
type Action string

const (
	ActionView        Action = "view"
	ActionEditDetails Action = "edit_details"
	ActionActivate    Action = "activate"
	ActionDeactivate  Action = "deactivate"
	ActionSetURLCode  Action = "set_url_code"
	ActionReassign    Action = "reassign"
	ActionDelete      Action = "delete"
)

// Allowed is the single permission matrix for (identity, card, action).
// Admins may perform every action on every card. The assigned member may
// view, edit, toggle activation and set the url code of their own card,
// but never reassign or delete. Everyone else may do nothing.
func Allowed(identity User, card Card, action Action) bool {
	if identity.IsAdmin() {
		return true
	}
	if card.AssignedTo == "" || card.AssignedTo != identity.ID {
		return false
	}
	switch action {
	case ActionReassign, ActionDelete:
		return false
	default:
		return true
	}
}

// VisibleTo returns the subset of cards the identity may see: everything
// for an admin, only the identity's own cards for a member. The input
// slice is never mutated.
func VisibleTo(identity User, cards []Card) []Card {
	if identity.IsAdmin() {
		return append([]Card(nil), cards...)
	}
	visible := make([]Card, 0)
	for _, card := range cards {
		if card.AssignedTo == identity.ID {
			visible = append(visible, card)
		}
	}
	return visible
}

// CardPartition is the admin dashboard split of the full card set.
type CardPartition struct {
	// Assigned holds cards whose assignee is a non-admin identity.
	Assigned []Card
	// Unassigned holds cards without an assignee, plus cards held by an
	// admin, which count as unassigned inventory.
	Unassigned []Card
}

// Partition splits cards into assigned and unassigned views. nonAdmins is
// the roster of non-admin identities (from CardClient.NonAdminUsers); a
// card whose assignee is absent from the roster is treated as unassigned
// inventory. The split is total and disjoint, and a pure projection: the
// input is not mutated.
func Partition(cards []Card, nonAdmins []User) CardPartition {
	eligible := make(map[string]struct{}, len(nonAdmins))
	for _, user := range nonAdmins {
		eligible[user.ID] = struct{}{}
	}

	part := CardPartition{Assigned: []Card{}, Unassigned: []Card{}}
	for _, card := range cards {
		if _, ok := eligible[card.AssignedTo]; ok && card.AssignedTo != "" {
			part.Assigned = append(part.Assigned, card)
		} else {
			part.Unassigned = append(part.Unassigned, card)
		}
	}
	return part
}

// AccessController enforces the permission matrix ahead of every mutating
// call and computes the role-dependent views over fetched card sets. It
// holds no card state; views are recomputed from whatever the CardClient
// returned. The server remains the authoritative enforcer.
type AccessController struct {
	session *SessionManager
	cards   *CardClient
}

// NewAccessController wires the controller to the session and card client.
func NewAccessController(session *SessionManager, cards *CardClient) *AccessController {
	return &AccessController{session: session, cards: cards}
}

// Authorize rejects the action locally, without a network round-trip,
// when the current identity lacks permission for it on card.
func (a *AccessController) Authorize(card Card, action Action) error {
	identity, ok := a.session.CurrentUser()
	if !ok {
		return &Error{Kind: KindAuth, Message: "not authenticated"}
	}
	if !Allowed(identity, card, action) {
		return &Error{
			Kind:    KindAuthorization,
			Message: string(action) + " is not permitted for this card",
		}
	}
	return nil
}

// Visible filters cards down to what the current identity may see.
func (a *AccessController) Visible(cards []Card) []Card {
	identity, ok := a.session.CurrentUser()
	if !ok {
		return []Card{}
	}
	return VisibleTo(identity, cards)
}

// EditDetails updates the card's contact details after a local permission
// check.
func (a *AccessController) EditDetails(ctx context.Context, card Card, details map[string]string) (*Card, error) {
	if err := a.Authorize(card, ActionEditDetails); err != nil {
		return nil, err
	}
	return a.cards.Update(ctx, card.URLCode, details)
}

// Activate turns the card on after a local permission check.
func (a *AccessController) Activate(ctx context.Context, card Card) (*Card, error) {
	if err := a.Authorize(card, ActionActivate); err != nil {
		return nil, err
	}
	return a.cards.Activate(ctx, card.URLCode)
}

// Deactivate turns the card off after a local permission check.
func (a *AccessController) Deactivate(ctx context.Context, card Card) (*Card, error) {
	if err := a.Authorize(card, ActionDeactivate); err != nil {
		return nil, err
	}
	return a.cards.Deactivate(ctx, card.URLCode)
}

// SetURLCode assigns a custom url code after a local permission check.
func (a *AccessController) SetURLCode(ctx context.Context, card Card, newURLCode string) (*Card, error) {
	if err := a.Authorize(card, ActionSetURLCode); err != nil {
		return nil, err
	}
	return a.cards.SetURLCode(ctx, card.ID, newURLCode)
}

// Reassign moves the card to another identity. Admin only; members are
// rejected locally with KindAuthorization.
func (a *AccessController) Reassign(ctx context.Context, card Card, newUserID string) (*Card, error) {
	if err := a.Authorize(card, ActionReassign); err != nil {
		return nil, err
	}
	return a.cards.Reassign(ctx, card.URLCode, newUserID)
}

// Delete removes the card permanently. Admin only; members are rejected
// locally with KindAuthorization.
func (a *AccessController) Delete(ctx context.Context, card Card) error {
	if err := a.Authorize(card, ActionDelete); err != nil {
		return err
	}
	return a.cards.Delete(ctx, card.ID)
}
