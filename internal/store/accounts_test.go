// ABOUTME: Tests for account store operations
// ABOUTME: Covers lookups, token set/clear semantics, and flag round-trips

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrivia/coach-gateway/internal/authz"
)

func TestAccountStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := testAccount("nutri1")
	patientID := "patient-42"
	a.PatientID = &patientID
	require.NoError(t, store.CreateAccount(ctx, a))

	got, err := store.GetAccountByHandle(ctx, "nutri1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, authz.RoleNutricionista, got.Role)
	assert.True(t, got.Active)
	assert.True(t, got.WebAccess)
	assert.False(t, got.Admin)
	require.NotNil(t, got.PatientID)
	assert.Equal(t, "patient-42", *got.PatientID)
	assert.Nil(t, got.Token)
	assert.Nil(t, got.TokenExpiresAt)

	byID, err := store.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Handle, byID.Handle)
}

func TestAccountStore_DuplicateHandle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateAccount(ctx, testAccount("nutri1")))
	err := store.CreateAccount(ctx, testAccount("nutri1"))
	assert.ErrorIs(t, err, ErrHandleExists)
}

func TestAccountStore_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetAccountByHandle(ctx, "nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = store.GetAccountByID(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = store.GetAccountByToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountStore_SetToken(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := testAccount("nutri1")
	require.NoError(t, store.CreateAccount(ctx, a))

	expiry := time.Now().UTC().Add(720 * time.Hour).Truncate(time.Second)
	require.NoError(t, store.SetAccountToken(ctx, a.ID, "tok-1", &expiry, "https://api.example.com/v1"))

	got, err := store.GetAccountByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	require.NotNil(t, got.TokenExpiresAt)
	assert.True(t, expiry.Equal(*got.TokenExpiresAt))
	assert.Equal(t, "https://api.example.com/v1", got.APIBaseURL)
}

func TestAccountStore_SetToken_OverwritesPrior(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := testAccount("nutri1")
	require.NoError(t, store.CreateAccount(ctx, a))

	require.NoError(t, store.SetAccountToken(ctx, a.ID, "tok-old", nil, ""))
	require.NoError(t, store.SetAccountToken(ctx, a.ID, "tok-new", nil, ""))

	// The old token must no longer resolve: last login wins.
	_, err := store.GetAccountByToken(ctx, "tok-old")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	got, err := store.GetAccountByToken(ctx, "tok-new")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestAccountStore_SetToken_NilExpiryMeansNever(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := testAccount("nutri1")
	require.NoError(t, store.CreateAccount(ctx, a))
	require.NoError(t, store.SetAccountToken(ctx, a.ID, "tok-forever", nil, ""))

	got, err := store.GetAccountByToken(ctx, "tok-forever")
	require.NoError(t, err)
	require.NotNil(t, got.Token)
	assert.Nil(t, got.TokenExpiresAt)
}

func TestAccountStore_ClearToken(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := testAccount("nutri1")
	require.NoError(t, store.CreateAccount(ctx, a))
	require.NoError(t, store.SetAccountToken(ctx, a.ID, "tok-1", nil, ""))

	require.NoError(t, store.ClearAccountToken(ctx, a.ID))

	got, err := store.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Token)
	assert.Nil(t, got.TokenExpiresAt)

	_, err = store.GetAccountByToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountStore_SetToken_MissingAccount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.SetAccountToken(ctx, "missing", "tok", nil, "")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	err = store.ClearAccountToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountStore_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := testAccount("nutri1")
	require.NoError(t, store.CreateAccount(ctx, a))

	inactive := false
	newHash := "$2a$10$aaaaaaaaaaaaaaaaaaaaauuuuuuuuuuuuuuuuuuuuuuuuuuuuuuuu"
	role := authz.RoleEntrenador
	require.NoError(t, store.UpdateAccount(ctx, a.ID, AccountUpdate{
		Active:       &inactive,
		PasswordHash: &newHash,
		Role:         &role,
	}))

	got, err := store.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.True(t, got.WebAccess, "untouched fields stay as they were")
	assert.Equal(t, newHash, got.PasswordHash)
	assert.Equal(t, authz.RoleEntrenador, got.Role)
}

func TestAccountStore_Update_NoFieldsIsNoop(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := testAccount("nutri1")
	require.NoError(t, store.CreateAccount(ctx, a))
	require.NoError(t, store.UpdateAccount(ctx, a.ID, AccountUpdate{}))
}

func TestAccountStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateAccount(ctx, testAccount("nutri1")))
	require.NoError(t, store.CreateAccount(ctx, testAccount("trainer1")))

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}
