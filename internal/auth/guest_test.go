// ABOUTME: Tests for guest session issuance
// ABOUTME: Covers token format, expiry, audit, and persisted rows

package auth

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrivia/coach-gateway/internal/store"
)

var uuidV4Pattern = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func newTestGuestIssuer(s *store.SQLiteStore) *GuestIssuer {
	return NewGuestIssuer(s, s, NewExpirationPolicy(s))
}

func TestGuestIssuer_TokenFormat(t *testing.T) {
	s := setupTestStore(t)

	session, err := newTestGuestIssuer(s).CreateSession(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	// 8-4-4-4-12 hex groups with UUIDv4 version/variant bits.
	assert.Regexp(t, uuidV4Pattern, session.Token)
}

func TestGuestIssuer_PersistsRowAndAudits(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetExpirationHours(ctx, store.ExpirationCategoryGuest, 6))

	session, err := newTestGuestIssuer(s).CreateSession(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, 6, session.ExpiresInHours)

	g, err := s.GetGuestToken(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, g.Active)
	assert.Equal(t, "203.0.113.9", g.OriginIP)
	require.NotNil(t, g.ExpiresAt)

	entries, err := s.ListSessionAudit(ctx, store.SessionAuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, store.AuditGuestLoginSuccess, entries[0].Outcome)
	assert.Nil(t, entries[0].AccountID)
}

func TestGuestIssuer_ZeroHoursNeverExpires(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetExpirationHours(ctx, store.ExpirationCategoryGuest, 0))

	session, err := newTestGuestIssuer(s).CreateSession(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, 0, session.ExpiresInHours)

	g, err := s.GetGuestToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, g.ExpiresAt)
}

func TestGuestIssuer_SessionResolves(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session, err := newTestGuestIssuer(s).CreateSession(ctx, "203.0.113.9")
	require.NoError(t, err)

	principal, err := NewValidator(s, s).ResolveGuestOrUser(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, principal.IsGuest)
}
