// ABOUTME: Tests for the recipe catalog store methods
// ABOUTME: Covers public filtering and ordering of the guest feed

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogStore_ListPublicOnly(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateRecipe(ctx, &Recipe{
		ID: uuid.New().String(), Title: "Lentil salad", Summary: "High protein", Public: true, CreatedAt: base,
	}))
	require.NoError(t, store.CreateRecipe(ctx, &Recipe{
		ID: uuid.New().String(), Title: "Draft recipe", Public: false, CreatedAt: base.Add(time.Hour),
	}))
	require.NoError(t, store.CreateRecipe(ctx, &Recipe{
		ID: uuid.New().String(), Title: "Oat bowl", Public: true, CreatedAt: base.Add(2 * time.Hour),
	}))

	recipes, err := store.ListPublicRecipes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	// Newest first; the private draft never appears.
	assert.Equal(t, "Oat bowl", recipes[0].Title)
	assert.Equal(t, "Lentil salad", recipes[1].Title)
}

func TestCatalogStore_Limit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.CreateRecipe(ctx, &Recipe{
			ID:        uuid.New().String(),
			Title:     "Recipe",
			Public:    true,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}

	recipes, err := store.ListPublicRecipes(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
}
