// ABOUTME: Credential verification and session token issuance
// ABOUTME: Every attempt lands in the audit log; the last successful login wins

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/metrics"
	"github.com/nutrivia/coach-gateway/internal/store"
)

// dummyHash keeps bcrypt timing flat when the handle doesn't resolve, so a
// wrong password is indistinguishable from an unknown handle on the wire.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// LoginRequest carries the credential POST fields plus request-derived context.
type LoginRequest struct {
	Handle string
	Secret string
	// Device is the optional client-declared device tag, recorded in audit.
	Device *string
	// ClientBaseURL is the optional client-declared API base URL. Only
	// absolute http(s) URLs are honored.
	ClientBaseURL string
	// FallbackBaseURL is derived from the server's own request context and
	// used when ClientBaseURL is absent or unusable.
	FallbackBaseURL string
	// OriginIP is the remote address, recorded in audit.
	OriginIP string
}

// LoginResult is a successful issuance.
type LoginResult struct {
	Token string
	// ExpiresInHours is 0 when the session never expires.
	ExpiresInHours int
	Account        *store.Account
}

// Issuer verifies credentials and mints session tokens.
type Issuer struct {
	accounts store.AccountStore
	audit    store.AuditStore
	policy   *ExpirationPolicy
	logger   *slog.Logger
}

// NewIssuer creates a token issuer.
func NewIssuer(accounts store.AccountStore, audit store.AuditStore, policy *ExpirationPolicy) *Issuer {
	return &Issuer{
		accounts: accounts,
		audit:    audit,
		policy:   policy,
		logger:   slog.Default().With("component", "issuer"),
	}
}

// Login verifies the credentials and, on success, persists a fresh token
// overwriting any prior one. The credential check always runs before the
// active/web-access gate so a wrong password never reveals account state.
func (i *Issuer) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	account, err := i.accounts.GetAccountByHandle(ctx, req.Handle)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			// Burn a bcrypt comparison to keep timing flat.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(req.Secret))
			i.recordAudit(ctx, nil, store.AuditUnknownIdentity, req)
			metrics.LoginsTotal.WithLabelValues(string(store.AuditUnknownIdentity)).Inc()
			return nil, apperr.ErrUnknownIdentity
		}
		return nil, apperr.Wrap(apperr.KindPersistence, apperr.CodeStoreUnavailable, "storage unavailable", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Secret)); err != nil {
		i.recordAudit(ctx, &account.ID, store.AuditBadPassword, req)
		metrics.LoginsTotal.WithLabelValues(string(store.AuditBadPassword)).Inc()
		return nil, apperr.ErrBadCredential
	}

	if !account.Active || !account.WebAccess {
		i.recordAudit(ctx, &account.ID, store.AuditAccountDisabled, req)
		metrics.LoginsTotal.WithLabelValues(string(store.AuditAccountDisabled)).Inc()
		return nil, apperr.ErrAccountDisabled
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, apperr.CodeInternal, "internal server error", err)
	}

	hours := i.policy.HoursFor(ctx, account.Role, account.PatientID != nil)
	expiry := ExpiryFrom(time.Now(), hours)
	baseURL := ResolveBaseURL(req.ClientBaseURL, req.FallbackBaseURL)

	if err := i.accounts.SetAccountToken(ctx, account.ID, token, expiry, baseURL); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, apperr.CodeStoreUnavailable, "storage unavailable", err)
	}

	i.recordAudit(ctx, &account.ID, store.AuditSuccess, req)
	metrics.LoginsTotal.WithLabelValues(string(store.AuditSuccess)).Inc()
	i.logger.Info("login succeeded", "handle", account.Handle, "role", account.Role, "expires_in_hours", hours)

	account.Token = &token
	account.TokenExpiresAt = expiry
	account.APIBaseURL = baseURL

	return &LoginResult{
		Token:          token,
		ExpiresInHours: hours,
		Account:        account,
	}, nil
}

// recordAudit appends an audit row. Failures are logged and swallowed; the
// audit path must never fail the parent authentication call.
func (i *Issuer) recordAudit(ctx context.Context, accountID *string, outcome store.AuditOutcome, req LoginRequest) {
	err := i.audit.AppendSessionAudit(ctx, &store.SessionAuditEntry{
		AccountID: accountID,
		Outcome:   outcome,
		IP:        req.OriginIP,
		Device:    req.Device,
	})
	if err != nil {
		i.logger.Error("audit write failed", "outcome", outcome, "error", err)
	}
}

// ResolveBaseURL picks the API base URL persisted with the session: an
// explicit absolute http(s) URL from the client wins, otherwise the
// server-derived fallback.
func ResolveBaseURL(clientURL, fallback string) string {
	if clientURL != "" {
		u, err := url.Parse(clientURL)
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			return clientURL
		}
	}
	return fallback
}
