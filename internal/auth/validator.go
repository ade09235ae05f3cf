// ABOUTME: Bearer token validation resolving tokens to Principals
// ABOUTME: Present -> found -> unexpired -> enabled, with a guest fallback resolver

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/authz"
	"github.com/nutrivia/coach-gateway/internal/metrics"
	"github.com/nutrivia/coach-gateway/internal/store"
)

// Validator resolves bearer tokens to registered-user Principals. Validation
// is read-only: tokens are not rotated on use and live until re-login or
// explicit admin revoke.
type Validator struct {
	accounts store.AccountStore
	guests   store.GuestStore
	logger   *slog.Logger
}

// NewValidator creates a token validator.
func NewValidator(accounts store.AccountStore, guests store.GuestStore) *Validator {
	return &Validator{
		accounts: accounts,
		guests:   guests,
		logger:   slog.Default().With("component", "validator"),
	}
}

// ResolveUser resolves a bearer token to a registered-user Principal.
func (v *Validator) ResolveUser(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		metrics.TokenValidationsTotal.WithLabelValues(apperr.CodeMissingToken).Inc()
		return nil, apperr.ErrMissingToken
	}

	account, err := v.accounts.GetAccountByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			metrics.TokenValidationsTotal.WithLabelValues(apperr.CodeInvalidToken).Inc()
			return nil, apperr.ErrInvalidToken
		}
		return nil, apperr.Wrap(apperr.KindPersistence, apperr.CodeStoreUnavailable, "storage unavailable", err)
	}

	// The indexed lookup already matched; re-compare in constant time.
	if account.Token == nil || !TokensEqual(*account.Token, token) {
		metrics.TokenValidationsTotal.WithLabelValues(apperr.CodeInvalidToken).Inc()
		return nil, apperr.ErrInvalidToken
	}

	// A nil expiry never expires; an expiry at or before now rejects.
	if account.TokenExpiresAt != nil && !account.TokenExpiresAt.After(time.Now()) {
		metrics.TokenValidationsTotal.WithLabelValues(apperr.CodeTokenExpired).Inc()
		return nil, apperr.ErrTokenExpired
	}

	if !account.Active || !account.WebAccess {
		metrics.TokenValidationsTotal.WithLabelValues(apperr.CodeAccountDisabled).Inc()
		return nil, apperr.ErrAccountDisabled
	}

	metrics.TokenValidationsTotal.WithLabelValues("accept").Inc()
	return &Principal{
		ID:        account.ID,
		Role:      account.Role,
		IsGuest:   false,
		PatientID: account.PatientID,
		Admin:     account.Admin,
	}, nil
}

// ResolveGuestOrUser tries the registered-user path first and falls back to
// the guest token table. When neither resolves, the registered-user failure
// is returned: that is the preferred default path.
func (v *Validator) ResolveGuestOrUser(ctx context.Context, token string) (*Principal, error) {
	principal, userErr := v.ResolveUser(ctx, token)
	if userErr == nil {
		return principal, nil
	}
	if token == "" {
		return nil, userErr
	}

	guest, err := v.guests.GetGuestToken(ctx, token)
	if err != nil {
		// Not a guest token either; report the user-path rejection.
		return nil, userErr
	}

	if !guest.Active {
		return nil, userErr
	}
	if guest.ExpiresAt != nil && !guest.ExpiresAt.After(time.Now()) {
		return nil, userErr
	}

	metrics.TokenValidationsTotal.WithLabelValues("accept_guest").Inc()
	return &Principal{
		Role:    authz.RoleGuest,
		IsGuest: true,
	}, nil
}
