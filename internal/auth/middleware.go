// ABOUTME: HTTP middleware extracting bearer tokens and attaching Principals
// ABOUTME: RequireUser rejects anonymous requests; AllowGuest falls back to guest tokens

package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nutrivia/coach-gateway/internal/apperr"
)

// ExtractBearerToken extracts a bearer token from an Authorization header
// value. Returns an empty string when the header is missing or malformed;
// the caller decides how to reject.
func ExtractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// RequireUser creates middleware that resolves the bearer token to a
// registered-user Principal and attaches it to the request context. Guests
// are rejected; strictly mutating and administrative endpoints use this.
func RequireUser(v *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			principal, err := v.ResolveUser(r.Context(), token)
			if err != nil {
				writeAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// AllowGuest creates middleware for endpoints that explicitly permit
// anonymous access: registered users resolve first, guest tokens second.
func AllowGuest(v *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			principal, err := v.ResolveGuestOrUser(r.Context(), token)
			if err != nil {
				writeAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAdmin creates middleware that rejects non-administrative
// principals. Must run after RequireUser.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := FromContext(r.Context())
			if principal == nil {
				writeAuthError(w, apperr.ErrMissingToken)
				return
			}
			if !principal.IsAdmin() {
				writeAuthError(w, apperr.ErrPermission)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError emits the API's stable error shape. The middleware writes
// it directly so rejected requests never reach a handler.
func writeAuthError(w http.ResponseWriter, err error) {
	ae := apperr.FromError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ae.Status())
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": ae.Message,
		"code":    ae.Code,
	})
}
