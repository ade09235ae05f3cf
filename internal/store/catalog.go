// ABOUTME: Recipe catalog store methods backing the guest-browsable feed
// ABOUTME: Only public recipes are served to anonymous sessions

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreateRecipe inserts a catalog row.
func (s *SQLiteStore) CreateRecipe(ctx context.Context, r *Recipe) error {
	query := `
		INSERT INTO recipes (id, title, summary, public, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.Title,
		nullString(r.Summary),
		boolToFlag(r.Public),
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting recipe: %w", err)
	}

	s.logger.Debug("created recipe", "id", r.ID, "title", r.Title)
	return nil
}

// ListPublicRecipes returns public catalog rows, newest first.
// If limit is 0 or negative, a default limit of 100 is used.
func (s *SQLiteStore) ListPublicRecipes(ctx context.Context, limit int) ([]*Recipe, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := `
		SELECT id, title, summary, public, created_at
		FROM recipes
		WHERE public = 'S'
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recipes []*Recipe
	for rows.Next() {
		var r Recipe
		var summary sql.NullString
		var public, createdAtStr string

		if err := rows.Scan(&r.ID, &r.Title, &summary, &public, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}

		r.Summary = summary.String
		r.Public = flagToBool(public)
		r.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		recipes = append(recipes, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recipes: %w", err)
	}
	return recipes, nil
}
