// ABOUTME: Tests for bearer token validation and the guest-or-user resolver
// ABOUTME: Covers the present/found/unexpired/enabled chain and fallback order

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/authz"
	"github.com/nutrivia/coach-gateway/internal/store"
)

func TestValidator_MissingToken(t *testing.T) {
	s := setupTestStore(t)
	validator := NewValidator(s, s)

	_, err := validator.ResolveUser(context.Background(), "")
	require.Error(t, err)
	ae := apperr.FromError(err)
	assert.Equal(t, apperr.CodeMissingToken, ae.Code)
	assert.Equal(t, 401, ae.Status())
}

func TestValidator_UnknownToken(t *testing.T) {
	s := setupTestStore(t)
	validator := NewValidator(s, s)

	_, err := validator.ResolveUser(context.Background(), "tok-that-nobody-holds")
	assert.Equal(t, apperr.CodeInvalidToken, apperr.FromError(err).Code)
}

func TestValidator_ExpiredToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := createAccount(t, s, "nutri1", "secret123", authz.RoleNutricionista)

	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, s.SetAccountToken(ctx, account.ID, "tok-expired", &past, ""))

	validator := NewValidator(s, s)
	_, err := validator.ResolveUser(ctx, "tok-expired")
	assert.Equal(t, apperr.CodeTokenExpired, apperr.FromError(err).Code)
}

func TestValidator_NilExpiryAlwaysAccepts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := createAccount(t, s, "nutri1", "secret123", authz.RoleNutricionista)
	require.NoError(t, s.SetAccountToken(ctx, account.ID, "tok-forever", nil, ""))

	validator := NewValidator(s, s)
	principal, err := validator.ResolveUser(ctx, "tok-forever")
	require.NoError(t, err)
	assert.Equal(t, account.ID, principal.ID)
}

func TestValidator_DisabledAccount(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := createAccount(t, s, "nutri1", "secret123", authz.RoleNutricionista)
	require.NoError(t, s.SetAccountToken(ctx, account.ID, "tok-1", nil, ""))
	require.NoError(t, s.UpdateAccount(ctx, account.ID, store.AccountUpdate{Active: boolPtr(false)}))

	validator := NewValidator(s, s)
	_, err := validator.ResolveUser(ctx, "tok-1")
	ae := apperr.FromError(err)
	assert.Equal(t, apperr.CodeAccountDisabled, ae.Code)
	assert.Equal(t, 403, ae.Status())
}

func TestValidator_CarriesLinkedPatient(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	patientID := "patient-7"
	linked := &store.Account{
		ID:           uuid.New().String(),
		Handle:       "paciente1",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         authz.RolePaciente,
		Active:       true,
		WebAccess:    true,
		PatientID:    &patientID,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateAccount(ctx, linked))
	require.NoError(t, s.SetAccountToken(ctx, linked.ID, "tok-linked", nil, ""))

	validator := NewValidator(s, s)
	principal, err := validator.ResolveUser(ctx, "tok-linked")
	require.NoError(t, err)
	require.NotNil(t, principal.PatientID)
	assert.Equal(t, "patient-7", *principal.PatientID)
}

func TestResolver_GuestFallback(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	guestToken := uuid.New().String()
	require.NoError(t, s.CreateGuestToken(ctx, &store.GuestToken{
		Token:     guestToken,
		CreatedAt: time.Now().UTC(),
		OriginIP:  "203.0.113.9",
		Active:    true,
	}))

	validator := NewValidator(s, s)
	principal, err := validator.ResolveGuestOrUser(ctx, guestToken)
	require.NoError(t, err)
	assert.True(t, principal.IsGuest)
	assert.Equal(t, authz.RoleGuest, principal.Role)
	assert.Empty(t, principal.ID)
	assert.False(t, principal.IsAdmin())
}

func TestResolver_PrefersRegisteredUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := createAccount(t, s, "nutri1", "secret123", authz.RoleNutricionista)
	require.NoError(t, s.SetAccountToken(ctx, account.ID, "tok-user", nil, ""))

	validator := NewValidator(s, s)
	principal, err := validator.ResolveGuestOrUser(ctx, "tok-user")
	require.NoError(t, err)
	assert.False(t, principal.IsGuest)
	assert.Equal(t, account.ID, principal.ID)
}

func TestResolver_ExpiredGuestReportsUserFailure(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	guestToken := uuid.New().String()
	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.CreateGuestToken(ctx, &store.GuestToken{
		Token:     guestToken,
		CreatedAt: past.Add(-time.Hour),
		ExpiresAt: &past,
		OriginIP:  "203.0.113.9",
		Active:    true,
	}))

	validator := NewValidator(s, s)
	_, err := validator.ResolveGuestOrUser(ctx, guestToken)
	// The registered-user rejection is the default failure path.
	assert.Equal(t, apperr.CodeInvalidToken, apperr.FromError(err).Code)
}

func TestResolver_InactiveGuestReportsUserFailure(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	guestToken := uuid.New().String()
	require.NoError(t, s.CreateGuestToken(ctx, &store.GuestToken{
		Token:     guestToken,
		CreatedAt: time.Now().UTC(),
		OriginIP:  "203.0.113.9",
		Active:    false,
	}))

	validator := NewValidator(s, s)
	_, err := validator.ResolveGuestOrUser(ctx, guestToken)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.FromError(err).Code)
}

func TestResolver_MissingTokenRejects(t *testing.T) {
	s := setupTestStore(t)
	validator := NewValidator(s, s)

	_, err := validator.ResolveGuestOrUser(context.Background(), "")
	assert.Equal(t, apperr.CodeMissingToken, apperr.FromError(err).Code)
}
