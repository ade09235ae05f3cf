// ABOUTME: SQLite implementation of the store interfaces using modernc.org/sqlite
// ABOUTME: Creates the schema on open and applies idempotent migrations

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements every store interface on a single SQLite handle.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is created automatically if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
// Boolean columns use the legacy 'S'/'N' single-character encoding the rest
// of the data layer shares; translation to real booleans happens at scan/exec.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			id               TEXT PRIMARY KEY,
			handle           TEXT UNIQUE NOT NULL,
			password_hash    TEXT NOT NULL,
			role             TEXT NOT NULL,
			active           TEXT NOT NULL DEFAULT 'S',
			web_access       TEXT NOT NULL DEFAULT 'S',
			is_admin         TEXT NOT NULL DEFAULT 'N',
			patient_id       TEXT,
			token            TEXT,
			token_expires_at TEXT,
			api_base_url     TEXT,
			created_at       TEXT NOT NULL,

			CHECK (active IN ('S', 'N')),
			CHECK (web_access IN ('S', 'N')),
			CHECK (is_admin IN ('S', 'N')),
			CHECK (role IN ('Admin', 'Nutricionista', 'Entrenador', 'Paciente')),
			-- an expiry may only exist alongside a token; a token with a NULL
			-- expiry never expires
			CHECK (token IS NOT NULL OR token_expires_at IS NULL)
		);

		CREATE INDEX IF NOT EXISTS idx_accounts_handle ON accounts(handle);
		CREATE INDEX IF NOT EXISTS idx_accounts_token ON accounts(token);

		CREATE TABLE IF NOT EXISTS guest_tokens (
			token      TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			expires_at TEXT,
			origin_ip  TEXT NOT NULL,
			active     TEXT NOT NULL DEFAULT 'S',

			CHECK (active IN ('S', 'N'))
		);

		CREATE INDEX IF NOT EXISTS idx_guest_tokens_expires ON guest_tokens(expires_at);

		CREATE TABLE IF NOT EXISTS session_audit (
			id          TEXT PRIMARY KEY,
			account_id  TEXT,
			happened_on TEXT NOT NULL,
			happened_at TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			ip          TEXT NOT NULL,
			device      TEXT,

			CHECK (outcome IN (
				'Success',
				'BadPassword',
				'UnknownIdentity',
				'AccountDisabled',
				'GuestLoginSuccess'
			))
		);

		CREATE INDEX IF NOT EXISTS idx_session_audit_when ON session_audit(happened_on DESC, happened_at DESC);
		CREATE INDEX IF NOT EXISTS idx_session_audit_account ON session_audit(account_id);

		CREATE TABLE IF NOT EXISTS expiration_config (
			category   TEXT PRIMARY KEY,
			hours      INTEGER NOT NULL,
			updated_at TEXT NOT NULL,

			CHECK (hours >= 0)
		);

		CREATE TABLE IF NOT EXISTS recipes (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			summary    TEXT,
			public     TEXT NOT NULL DEFAULT 'S',
			created_at TEXT NOT NULL,

			CHECK (public IN ('S', 'N'))
		);

		CREATE INDEX IF NOT EXISTS idx_recipes_public ON recipes(public);
	`

	_, err := s.db.Exec(schema)
	return err
}

// runMigrations applies schema migrations for existing databases.
// These are idempotent - safe to run multiple times.
func (s *SQLiteStore) runMigrations() error {
	// SQLite doesn't support ADD COLUMN IF NOT EXISTS, so check first
	migrations := []struct {
		check  string
		apply  string
		table  string
		column string
	}{
		{
			check:  `SELECT 1 FROM pragma_table_info('session_audit') WHERE name = 'device'`,
			apply:  `ALTER TABLE session_audit ADD COLUMN device TEXT`,
			table:  "session_audit",
			column: "device",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('accounts') WHERE name = 'api_base_url'`,
			apply:  `ALTER TABLE accounts ADD COLUMN api_base_url TEXT`,
			table:  "accounts",
			column: "api_base_url",
		},
	}

	for _, m := range migrations {
		var exists int
		err := s.db.QueryRow(m.check).Scan(&exists)
		if err == nil {
			// Column already exists, skip
			continue
		}
		if _, err := s.db.Exec(m.apply); err != nil {
			return fmt.Errorf("adding %s column to %s: %w", m.column, m.table, err)
		}
		s.logger.Info("applied migration", "column", m.column, "table", m.table)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// flagToBool translates the data layer's 'S'/'N' encoding to a boolean.
// Anything other than 'S' reads as false.
func flagToBool(flag string) bool {
	return flag == "S"
}

// boolToFlag translates a boolean to the data layer's 'S'/'N' encoding.
func boolToFlag(b bool) string {
	if b {
		return "S"
	}
	return "N"
}

// nullableTime formats an optional time for storage, nil stays NULL.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// scanNullableTime parses an optional RFC3339 column.
func scanNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp: %w", err)
	}
	return &t, nil
}

// isUniqueConstraintError checks if an error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") || strings.Contains(err.Error(), "unique constraint"))
}

// Interface assertions.
var (
	_ AccountStore    = (*SQLiteStore)(nil)
	_ GuestStore      = (*SQLiteStore)(nil)
	_ AuditStore      = (*SQLiteStore)(nil)
	_ ExpirationStore = (*SQLiteStore)(nil)
	_ CatalogStore    = (*SQLiteStore)(nil)
)
