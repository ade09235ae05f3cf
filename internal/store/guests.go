// ABOUTME: Guest token store methods for anonymous sessions
// ABOUTME: Guest tokens are written once and never mutated; they lapse by expiry

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateGuestToken persists a new anonymous session token.
func (s *SQLiteStore) CreateGuestToken(ctx context.Context, g *GuestToken) error {
	query := `
		INSERT INTO guest_tokens (token, created_at, expires_at, origin_ip, active)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		g.Token,
		g.CreatedAt.UTC().Format(time.RFC3339),
		nullableTime(g.ExpiresAt),
		g.OriginIP,
		boolToFlag(g.Active),
	)
	if err != nil {
		return fmt.Errorf("inserting guest token: %w", err)
	}

	s.logger.Debug("created guest token", "origin_ip", g.OriginIP)
	return nil
}

// GetGuestToken retrieves a guest token by its value.
// Returns ErrGuestTokenNotFound if no row matches. Expiry is not evaluated
// here; the resolver owns that decision.
func (s *SQLiteStore) GetGuestToken(ctx context.Context, token string) (*GuestToken, error) {
	query := `
		SELECT token, created_at, expires_at, origin_ip, active
		FROM guest_tokens
		WHERE token = ?
	`

	var g GuestToken
	var createdAtStr, active string
	var expiresAt sql.NullString

	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&g.Token,
		&createdAtStr,
		&expiresAt,
		&g.OriginIP,
		&active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying guest token: %w", err)
	}

	g.Active = flagToBool(active)

	g.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	g.ExpiresAt, err = scanNullableTime(expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}

	return &g, nil
}
