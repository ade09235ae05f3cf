// ABOUTME: Shared test helpers for the auth package
// ABOUTME: Tests run against a real SQLite store in a temp directory

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nutrivia/coach-gateway/internal/authz"
	"github.com/nutrivia/coach-gateway/internal/store"
)

func setupTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// createAccount inserts an active, web-enabled account with the given
// handle/secret and returns it.
func createAccount(t *testing.T, s *store.SQLiteStore, handle, secret string, role authz.Role) *store.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)

	a := &store.Account{
		ID:           uuid.New().String(),
		Handle:       handle,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		WebAccess:    true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateAccount(context.Background(), a))
	return a
}
