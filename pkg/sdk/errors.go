package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates the failure classes surfaced by the SDK so callers
// can branch on the category instead of matching message strings.
type Kind string

const (
	// KindInvalidCredentials is returned when login or registration is
	// rejected by the server.
	KindInvalidCredentials Kind = "invalid_credentials"
	// KindTokenExpired is returned when the access token was rejected
	// before any refresh has been attempted.
	KindTokenExpired Kind = "token_expired"
	// KindRefreshFailed is returned when no refresh token is held or the
	// server rejected it. The local token pair is cleared when this occurs.
	KindRefreshFailed Kind = "refresh_failed"
	// KindAuth is the terminal authentication failure surfaced after a
	// refresh+retry cycle could not recover a call.
	KindAuth Kind = "auth"
	// KindAuthorization is a locally detected permission denial; no
	// network call was made.
	KindAuthorization Kind = "authorization"
	// KindConflict signals a duplicate url code.
	KindConflict Kind = "conflict"
	// KindValidation signals malformed input, rejected locally or by the server.
	KindValidation Kind = "validation"
	// KindNotFound signals a missing resource.
	KindNotFound Kind = "not_found"
	// KindNetwork signals a transport-level failure or an unexpected
	// server status.
	KindNetwork Kind = "network"
)

// Error is the typed error returned by every SDK operation.
type Error struct {
	Kind    Kind
	Message string
	Status  int   // HTTP status, when the server produced the failure
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or "" when err is not an SDK error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsKind reports whether err is an SDK error of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// asError returns err as an *Error, or nil when it is not one.
func asError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

func IsAuthorization(err error) bool { return IsKind(err, KindAuthorization) }
func IsConflict(err error) bool      { return IsKind(err, KindConflict) }
func IsNotFound(err error) bool      { return IsKind(err, KindNotFound) }
func IsValidation(err error) bool    { return IsKind(err, KindValidation) }

// errorFromStatus maps a non-2xx server response to the taxonomy. 401 maps
// to KindTokenExpired here; callers on the login and refresh paths rewrite
// it to the kind appropriate for their operation.
func errorFromStatus(status int, message string) *Error {
	var kind Kind
	switch status {
	case http.StatusUnauthorized:
		kind = KindTokenExpired
	case http.StatusForbidden:
		kind = KindAuthorization
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusConflict:
		kind = KindConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindValidation
	default:
		kind = KindNetwork
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Kind: kind, Message: message, Status: status}
}
