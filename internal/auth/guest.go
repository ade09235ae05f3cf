// ABOUTME: Guest session issuance: anonymous tokens without credentials
// ABOUTME: Tokens are canonical UUIDv4 strings recorded with the origin IP

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/metrics"
	"github.com/nutrivia/coach-gateway/internal/store"
)

// GuestSession is the result of an anonymous session request.
type GuestSession struct {
	Token string
	// ExpiresInHours is 0 when the session never expires.
	ExpiresInHours int
}

// GuestIssuer mints anonymous session tokens.
type GuestIssuer struct {
	guests store.GuestStore
	audit  store.AuditStore
	policy *ExpirationPolicy
	logger *slog.Logger
}

// NewGuestIssuer creates a guest session issuer.
func NewGuestIssuer(guests store.GuestStore, audit store.AuditStore, policy *ExpirationPolicy) *GuestIssuer {
	return &GuestIssuer{
		guests: guests,
		audit:  audit,
		policy: policy,
		logger: slog.Default().With("component", "guest-issuer"),
	}
}

// CreateSession mints and persists a new guest token for the given origin IP.
func (g *GuestIssuer) CreateSession(ctx context.Context, originIP string) (*GuestSession, error) {
	token := uuid.New().String()
	hours := g.policy.GuestHours(ctx)
	now := time.Now().UTC()

	err := g.guests.CreateGuestToken(ctx, &store.GuestToken{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: ExpiryFrom(now, hours),
		OriginIP:  originIP,
		Active:    true,
	})
	if err != nil {
		metrics.GuestSessionsTotal.WithLabelValues("error").Inc()
		return nil, apperr.Wrap(apperr.KindPersistence, apperr.CodeStoreUnavailable, "storage unavailable", err)
	}

	g.recordAudit(ctx, originIP)
	metrics.GuestSessionsTotal.WithLabelValues(string(store.AuditGuestLoginSuccess)).Inc()
	g.logger.Info("guest session created", "expires_in_hours", hours)

	return &GuestSession{Token: token, ExpiresInHours: hours}, nil
}

// recordAudit appends the guest audit row with a null account id. Failures
// are logged and swallowed.
func (g *GuestIssuer) recordAudit(ctx context.Context, originIP string) {
	err := g.audit.AppendSessionAudit(ctx, &store.SessionAuditEntry{
		Outcome: store.AuditGuestLoginSuccess,
		IP:      originIP,
	})
	if err != nil {
		g.logger.Error("audit write failed", "outcome", store.AuditGuestLoginSuccess, "error", err)
	}
}
