// ABOUTME: Typed application error taxonomy with stable machine codes
// ABOUTME: Every API failure maps to one of these kinds and an HTTP status

package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error. Each kind has a fixed HTTP status.
type Kind int

const (
	// KindValidation is a malformed or semantically invalid request (400).
	KindValidation Kind = iota
	// KindAuthentication is a missing, invalid, or expired credential/token (401).
	KindAuthentication
	// KindAuthorization is a valid principal with insufficient rights (403).
	KindAuthorization
	// KindNotFound is a missing resource (404).
	KindNotFound
	// KindUnsupportedMethod is a known path with a wrong HTTP verb (405).
	KindUnsupportedMethod
	// KindPersistence is a transient storage failure (503).
	KindPersistence
	// KindInternal is any unexpected fault (500). Detail never reaches the client.
	KindInternal
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnsupportedMethod:
		return http.StatusMethodNotAllowed
	case KindPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error carrying a stable machine code and a short
// client-safe message. The wrapped cause is for server-side logs only.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status for the error.
func (e *Error) Status() int { return e.Kind.Status() }

// New creates an application error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates an application error with an underlying cause.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Stable machine codes. These are part of the API contract; clients match on
// them, so they must never change meaning.
const (
	CodeUnknownIdentity  = "unknown_identity"
	CodeBadCredential    = "bad_credential"
	CodeAccountDisabled  = "account_disabled"
	CodeMissingToken     = "missing_token"
	CodeInvalidToken     = "invalid_token"
	CodeTokenExpired     = "token_expired"
	CodePermissionDenied = "permission_denied"
	CodeValidation       = "validation_failed"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeStoreUnavailable = "store_unavailable"
	CodeInternal         = "internal_error"
)

// Common instances reused across the auth path. Credential and token failures
// deliberately share vague messages so a caller cannot distinguish account
// state from a bad secret.
var (
	ErrUnknownIdentity = New(KindAuthentication, CodeUnknownIdentity, "invalid credentials")
	ErrBadCredential   = New(KindAuthentication, CodeBadCredential, "invalid credentials")
	ErrAccountDisabled = New(KindAuthorization, CodeAccountDisabled, "account disabled")
	ErrMissingToken    = New(KindAuthentication, CodeMissingToken, "missing bearer token")
	ErrInvalidToken    = New(KindAuthentication, CodeInvalidToken, "invalid token")
	ErrTokenExpired    = New(KindAuthentication, CodeTokenExpired, "token expired")
	ErrPermission      = New(KindAuthorization, CodePermissionDenied, "permission denied")
	ErrNotFound        = New(KindNotFound, CodeNotFound, "not found")
	ErrMethod          = New(KindUnsupportedMethod, CodeMethodNotAllowed, "method not allowed")
	ErrInternal        = New(KindInternal, CodeInternal, "internal server error")
)

// FromError converts any error into an *Error. Unknown errors are downgraded
// to the internal kind so no raw detail leaks into a response body.
func FromError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(KindInternal, CodeInternal, "internal server error", err)
}
