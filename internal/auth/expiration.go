// ABOUTME: Expiration policy resolving session lifetime hours by role/category
// ABOUTME: Configuration rows override hardcoded defaults; 0 means never expires

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nutrivia/coach-gateway/internal/authz"
	"github.com/nutrivia/coach-gateway/internal/store"
)

// Hardcoded fallbacks used when no configuration row exists.
const (
	// DefaultUserHours is the session lifetime for unconfigured roles.
	DefaultUserHours = 168
	// DefaultGuestHours is the guest session lifetime when unconfigured.
	DefaultGuestHours = 24
)

// ExpirationPolicy resolves token lifetimes from the expiration_config rows.
// Lookup failures fall back to the defaults: policy resolution is never the
// reason a login fails.
type ExpirationPolicy struct {
	rules  store.ExpirationStore
	logger *slog.Logger
}

// NewExpirationPolicy creates a policy backed by the given rules store.
func NewExpirationPolicy(rules store.ExpirationStore) *ExpirationPolicy {
	return &ExpirationPolicy{
		rules:  rules,
		logger: slog.Default().With("component", "expiration"),
	}
}

// HoursFor resolves the session lifetime in hours for an account.
// Precedence: the linked_patient override (when the account has a linked
// patient and the row exists), then the role's own row, then the default.
// A result of 0 means the session never expires.
func (p *ExpirationPolicy) HoursFor(ctx context.Context, role authz.Role, hasLinkedPatient bool) int {
	if hasLinkedPatient {
		if hours, ok := p.lookup(ctx, store.ExpirationCategoryLinkedPatient); ok {
			return hours
		}
	}
	if hours, ok := p.lookup(ctx, string(role)); ok {
		return hours
	}
	return DefaultUserHours
}

// GuestHours resolves the guest session lifetime in hours.
func (p *ExpirationPolicy) GuestHours(ctx context.Context) int {
	if hours, ok := p.lookup(ctx, store.ExpirationCategoryGuest); ok {
		return hours
	}
	return DefaultGuestHours
}

func (p *ExpirationPolicy) lookup(ctx context.Context, category string) (int, bool) {
	hours, err := p.rules.GetExpirationHours(ctx, category)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			p.logger.Warn("expiration lookup failed, using default", "category", category, "error", err)
		}
		return 0, false
	}
	return hours, true
}

// ExpiryFrom converts a lifetime in hours to an absolute expiry.
// The 0 sentinel short-circuits to nil (never expires) rather than an
// immediately-past timestamp.
func ExpiryFrom(now time.Time, hours int) *time.Time {
	if hours == 0 {
		return nil
	}
	t := now.UTC().Add(time.Duration(hours) * time.Hour)
	return &t
}
