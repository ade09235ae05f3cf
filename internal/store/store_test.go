// ABOUTME: Shared test helpers and basic store lifecycle tests
// ABOUTME: Tests run against a real SQLite database in a temp directory

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrivia/coach-gateway/internal/authz"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// testAccount returns a valid active account for tests.
func testAccount(handle string) *Account {
	return &Account{
		ID:           uuid.New().String(),
		Handle:       handle,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         authz.RoleNutricionista,
		Active:       true,
		WebAccess:    true,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestNewSQLiteStore_CreatesParentDirs(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "deep", "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, dbPath)
}

func TestNewSQLiteStore_ReopenIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	ctx := context.Background()

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.CreateAccount(ctx, testAccount("nutri1")))
	require.NoError(t, store.Close())

	// Schema creation and migrations must be safe on an existing database.
	store, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	a, err := store.GetAccountByHandle(ctx, "nutri1")
	require.NoError(t, err)
	assert.Equal(t, "nutri1", a.Handle)
}

func TestFlagTranslation(t *testing.T) {
	assert.Equal(t, "S", boolToFlag(true))
	assert.Equal(t, "N", boolToFlag(false))
	assert.True(t, flagToBool("S"))
	assert.False(t, flagToBool("N"))
	// Anything unexpected reads as false, fail closed.
	assert.False(t, flagToBool(""))
	assert.False(t, flagToBool("Y"))
}
