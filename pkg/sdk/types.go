package sdk

import (
	"encoding/json"
	"time"
)

// Role classifies an identity. It is authoritative for every
// authorization decision the SDK makes.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User is an identity as returned by the server. Immutable for the
// lifetime of a session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Card is a shared business card record routed by its url code.
// AssignedTo is a weak reference to a User by id; the SDK never resolves
// it implicitly.
type Card struct {
	ID            string            `json:"id"`
	URLCode       string            `json:"urlCode"`
	CustomURLCode string            `json:"customUrlCode,omitempty"`
	IsActive      bool              `json:"isActive"`
	AssignedTo    string            `json:"assignedTo,omitempty"`
	StartDate     *time.Time        `json:"startDate,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// Assigned reports whether the card has an assignee reference at all.
// Whether that assignee counts as "held" for partitioning additionally
// depends on the assignee's role; see Partition.
func (c Card) Assigned() bool { return c.AssignedTo != "" }

// LoginInput carries the credentials exchanged for a token pair.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput carries the profile for a new identity. Registration
// auto-authenticates on success.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// envelope is the `{ "data": ... }` wrapper every API response uses.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// apiMessage is the error payload shape; servers use either field.
type apiMessage struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (m apiMessage) text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

// sessionPayload is the login/register response body.
type sessionPayload struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// refreshPayload is the refresh-token response body. The refresh token
// itself is not rotated by the server.
type refreshPayload struct {
	AccessToken string `json:"access_token"`
}
