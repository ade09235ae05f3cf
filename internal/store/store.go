// ABOUTME: Store interfaces and shared sentinel errors for the auth core
// ABOUTME: SQLiteStore implements every interface in a single struct

package store

import (
	"context"
	"errors"
	"time"

	"github.com/nutrivia/coach-gateway/internal/authz"
)

// Common store errors.
var (
	// ErrNotFound is returned when a requested row doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrAccountNotFound is returned when an account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrGuestTokenNotFound is returned when a guest token doesn't exist.
	ErrGuestTokenNotFound = errors.New("guest token not found")
	// ErrHandleExists is returned when creating an account with a taken handle.
	ErrHandleExists = errors.New("login handle already exists")
)

// AccountStore defines account persistence. Token and expiry are written
// together and cleared together; the expiry may be nil on a live token,
// meaning the session never expires.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByHandle(ctx context.Context, handle string) (*Account, error)
	GetAccountByToken(ctx context.Context, token string) (*Account, error)
	SetAccountToken(ctx context.Context, id, token string, expiresAt *time.Time, apiBaseURL string) error
	ClearAccountToken(ctx context.Context, id string) error
	UpdateAccount(ctx context.Context, id string, upd AccountUpdate) error
	ListAccounts(ctx context.Context) ([]*Account, error)
}

// GuestStore defines guest token persistence. Guest tokens are created once
// and never mutated; they lapse by expiry.
type GuestStore interface {
	CreateGuestToken(ctx context.Context, g *GuestToken) error
	GetGuestToken(ctx context.Context, token string) (*GuestToken, error)
}

// AuditStore defines the append-only session audit log.
type AuditStore interface {
	AppendSessionAudit(ctx context.Context, e *SessionAuditEntry) error
	ListSessionAudit(ctx context.Context, f SessionAuditFilter) ([]SessionAuditEntry, error)
}

// ExpirationStore defines the administratively editable expiration rules.
type ExpirationStore interface {
	GetExpirationHours(ctx context.Context, category string) (int, error)
	SetExpirationHours(ctx context.Context, category string, hours int) error
	ListExpirationRules(ctx context.Context) ([]ExpirationRule, error)
}

// CatalogStore defines the public recipe catalog used by guest-browsable
// endpoints.
type CatalogStore interface {
	CreateRecipe(ctx context.Context, r *Recipe) error
	ListPublicRecipes(ctx context.Context, limit int) ([]*Recipe, error)
}

// Account is a registered user row. Active/WebAccess/Admin are real booleans
// here; the data layer stores them as 'S'/'N' single-character flags.
type Account struct {
	ID             string
	Handle         string
	PasswordHash   string
	Role           authz.Role
	Active         bool
	WebAccess      bool
	Admin          bool
	PatientID      *string
	Token          *string
	TokenExpiresAt *time.Time
	APIBaseURL     string
	CreatedAt      time.Time
}

// AccountUpdate holds optional account mutations. Nil fields are left
// untouched.
type AccountUpdate struct {
	PasswordHash *string
	APIBaseURL   *string
	Active       *bool
	WebAccess    *bool
	Role         *authz.Role
}

// GuestToken is an anonymous session row.
type GuestToken struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt *time.Time
	OriginIP  string
	Active    bool
}

// Recipe is a catalog row served to guest-browsable feed endpoints.
type Recipe struct {
	ID        string
	Title     string
	Summary   string
	Public    bool
	CreatedAt time.Time
}
