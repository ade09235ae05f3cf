// ABOUTME: Expiration configuration rows mapping role/category to session hours
// ABOUTME: 0 hours is the sentinel for sessions that never expire

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Reserved expiration categories consulted by the policy alongside role names.
const (
	// ExpirationCategoryGuest is the single global guest session lifetime.
	ExpirationCategoryGuest = "guest"
	// ExpirationCategoryLinkedPatient overrides the role lifetime for
	// accounts with a linked patient.
	ExpirationCategoryLinkedPatient = "linked_patient"
)

// ExpirationRule is one administratively editable configuration row.
type ExpirationRule struct {
	Category  string
	Hours     int
	UpdatedAt time.Time
}

// GetExpirationHours returns the configured hours for a category.
// Returns ErrNotFound when the category is unconfigured.
func (s *SQLiteStore) GetExpirationHours(ctx context.Context, category string) (int, error) {
	var hours int
	err := s.db.QueryRowContext(ctx,
		`SELECT hours FROM expiration_config WHERE category = ?`, category).Scan(&hours)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("querying expiration config: %w", err)
	}
	return hours, nil
}

// SetExpirationHours creates or replaces the rule for a category.
// Hours must be >= 0; 0 means sessions in the category never expire.
func (s *SQLiteStore) SetExpirationHours(ctx context.Context, category string, hours int) error {
	if hours < 0 {
		return fmt.Errorf("expiration hours must be >= 0, got %d", hours)
	}

	query := `
		INSERT OR REPLACE INTO expiration_config (category, hours, updated_at)
		VALUES (?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, category, hours, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("setting expiration config: %w", err)
	}

	s.logger.Info("set expiration config", "category", category, "hours", hours)
	return nil
}

// ListExpirationRules returns all configured rules ordered by category.
func (s *SQLiteStore) ListExpirationRules(ctx context.Context) ([]ExpirationRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, hours, updated_at FROM expiration_config ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("querying expiration config: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []ExpirationRule
	for rows.Next() {
		var r ExpirationRule
		var updatedAtStr string

		if err := rows.Scan(&r.Category, &r.Hours, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning expiration rule: %w", err)
		}

		r.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		rules = append(rules, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expiration rules: %w", err)
	}

	if rules == nil {
		rules = []ExpirationRule{}
	}
	return rules, nil
}
