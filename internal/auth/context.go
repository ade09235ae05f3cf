// ABOUTME: Principal type and context propagation for authenticated requests
// ABOUTME: Provides WithPrincipal/FromContext for carrying identity into handlers

package auth

import (
	"context"

	"github.com/nutrivia/coach-gateway/internal/authz"
)

// Principal is the normalized authenticated identity produced by token
// validation. It lives only for the duration of a request and is never
// persisted.
type Principal struct {
	ID        string     // account id, empty for guests
	Role      authz.Role // resolved role, RoleGuest for anonymous sessions
	IsGuest   bool
	PatientID *string // linked patient id, nil when unlinked or guest
	Admin     bool    // administrative flag from the account row
}

// IsAdmin reports whether the principal may use administrative endpoints.
func (p *Principal) IsAdmin() bool {
	return p.Admin || p.Role == authz.RoleAdmin
}

// principalKey is the key type for storing a Principal in context.Context.
type principalKey struct{}

// WithPrincipal returns a new context with the Principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the Principal from the context, returning nil if not present.
func FromContext(ctx context.Context) *Principal {
	val := ctx.Value(principalKey{})
	if val == nil {
		return nil
	}
	p, ok := val.(*Principal)
	if !ok {
		return nil
	}
	return p
}

// MustFromContext retrieves the Principal from the context, panicking if not present.
func MustFromContext(ctx context.Context) *Principal {
	p := FromContext(ctx)
	if p == nil {
		panic("auth: Principal not found in context")
	}
	return p
}
