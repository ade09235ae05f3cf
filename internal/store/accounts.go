// ABOUTME: Account store methods: lookup by handle/id/token, token set/clear, updates
// ABOUTME: Token writes overwrite unconditionally - last login wins by design

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nutrivia/coach-gateway/internal/authz"
)

const accountColumns = `id, handle, password_hash, role, active, web_access, is_admin,
	patient_id, token, token_expires_at, api_base_url, created_at`

// CreateAccount creates a new account.
// Returns ErrHandleExists if the login handle is taken.
func (s *SQLiteStore) CreateAccount(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO accounts (id, handle, password_hash, role, active, web_access, is_admin,
			patient_id, token, token_expires_at, api_base_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Handle,
		a.PasswordHash,
		string(a.Role),
		boolToFlag(a.Active),
		boolToFlag(a.WebAccess),
		boolToFlag(a.Admin),
		a.PatientID,
		a.Token,
		nullableTime(a.TokenExpiresAt),
		nullString(a.APIBaseURL),
		a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrHandleExists
		}
		return fmt.Errorf("inserting account: %w", err)
	}

	s.logger.Info("created account", "id", a.ID, "handle", a.Handle, "role", a.Role)
	return nil
}

// scanAccount scans an account row and translates flag columns to booleans.
func scanAccount(scanner interface{ Scan(dest ...any) error }) (*Account, error) {
	var a Account
	var role, active, webAccess, isAdmin, createdAtStr string
	var patientID, token, expiresAt, baseURL sql.NullString

	err := scanner.Scan(
		&a.ID,
		&a.Handle,
		&a.PasswordHash,
		&role,
		&active,
		&webAccess,
		&isAdmin,
		&patientID,
		&token,
		&expiresAt,
		&baseURL,
		&createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	a.Role = authz.Role(role)
	a.Active = flagToBool(active)
	a.WebAccess = flagToBool(webAccess)
	a.Admin = flagToBool(isAdmin)
	a.APIBaseURL = baseURL.String

	if patientID.Valid {
		a.PatientID = &patientID.String
	}
	if token.Valid {
		a.Token = &token.String
	}

	a.TokenExpiresAt, err = scanNullableTime(expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parsing token_expires_at: %w", err)
	}

	a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &a, nil
}

// GetAccountByID retrieves an account by ID.
// Returns ErrAccountNotFound if no account exists.
func (s *SQLiteStore) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}
	return a, nil
}

// GetAccountByHandle retrieves an account by login handle.
// Returns ErrAccountNotFound if no account exists.
func (s *SQLiteStore) GetAccountByHandle(ctx context.Context, handle string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE handle = ?`, handle)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account by handle: %w", err)
	}
	return a, nil
}

// GetAccountByToken retrieves the account holding the given session token.
// Uses the idx_accounts_token index. Returns ErrAccountNotFound if no account
// holds the token.
func (s *SQLiteStore) GetAccountByToken(ctx context.Context, token string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE token = ?`, token)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account by token: %w", err)
	}
	return a, nil
}

// SetAccountToken stores a freshly issued session token, overwriting any
// prior token unconditionally. Two concurrent logins race here and the last
// write wins; the loser's token stops resolving on its next use.
// A nil expiresAt means the session never expires.
func (s *SQLiteStore) SetAccountToken(ctx context.Context, id, token string, expiresAt *time.Time, apiBaseURL string) error {
	query := `
		UPDATE accounts
		SET token = ?, token_expires_at = ?, api_base_url = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, token, nullableTime(expiresAt), nullString(apiBaseURL), id)
	if err != nil {
		return fmt.Errorf("setting account token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	s.logger.Debug("set account token", "id", id)
	return nil
}

// ClearAccountToken revokes the account's session by nulling out the
// token/expiry pair. Used by the administrative revoke path.
func (s *SQLiteStore) ClearAccountToken(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET token = NULL, token_expires_at = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("clearing account token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	s.logger.Info("cleared account token", "id", id)
	return nil
}

// UpdateAccount applies the non-nil fields of the update to the account.
// Returns ErrAccountNotFound if the account doesn't exist.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, id string, upd AccountUpdate) error {
	var sets []string
	var args []any

	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.APIBaseURL != nil {
		sets = append(sets, "api_base_url = ?")
		args = append(args, nullString(*upd.APIBaseURL))
	}
	if upd.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, boolToFlag(*upd.Active))
	}
	if upd.WebAccess != nil {
		sets = append(sets, "web_access = ?")
		args = append(args, boolToFlag(*upd.WebAccess))
	}
	if upd.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, string(*upd.Role))
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE accounts SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	s.logger.Debug("updated account", "id", id)
	return nil
}

// ListAccounts returns all accounts ordered by creation time.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]*Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}
	return accounts, nil
}

// nullString returns nil for empty strings, otherwise the string itself.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
