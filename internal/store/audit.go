// ABOUTME: Session audit log entity and store methods
// ABOUTME: Append-only record of every authentication attempt, never updated or deleted

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditOutcome classifies an authentication attempt.
type AuditOutcome string

const (
	AuditSuccess           AuditOutcome = "Success"
	AuditBadPassword       AuditOutcome = "BadPassword"
	AuditUnknownIdentity   AuditOutcome = "UnknownIdentity"
	AuditAccountDisabled   AuditOutcome = "AccountDisabled"
	AuditGuestLoginSuccess AuditOutcome = "GuestLoginSuccess"
)

// ValidAuditOutcomes lists all valid audit outcomes.
var ValidAuditOutcomes = []AuditOutcome{
	AuditSuccess,
	AuditBadPassword,
	AuditUnknownIdentity,
	AuditAccountDisabled,
	AuditGuestLoginSuccess,
}

// SessionAuditEntry is a single immutable audit row. AccountID is nil for
// unknown identities and guest sessions.
type SessionAuditEntry struct {
	ID        string
	AccountID *string
	When      time.Time
	Outcome   AuditOutcome
	IP        string
	Device    *string
}

// SessionAuditFilter specifies filtering options for listing audit entries.
type SessionAuditFilter struct {
	Since     *time.Time
	Until     *time.Time
	AccountID *string
	Outcome   *AuditOutcome
	Limit     int // max results (default 100, max 1000)
}

// AppendSessionAudit appends a new entry to the audit log.
// Generates ID and When if not set. The date and time-of-day land in
// separate columns, matching the legacy session log layout.
func (s *SQLiteStore) AppendSessionAudit(ctx context.Context, e *SessionAuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.When.IsZero() {
		e.When = time.Now().UTC()
	}

	when := e.When.UTC()
	query := `
		INSERT INTO session_audit (id, account_id, happened_on, happened_at, outcome, ip, device)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.AccountID,
		when.Format("2006-01-02"),
		when.Format("15:04:05"),
		string(e.Outcome),
		e.IP,
		e.Device,
	)
	if err != nil {
		return fmt.Errorf("inserting session audit entry: %w", err)
	}

	s.logger.Debug("appended session audit",
		"id", e.ID,
		"outcome", e.Outcome,
		"ip", e.IP,
	)
	return nil
}

// normalizeAuditLimit applies default (100) and cap (1000) to the limit.
func normalizeAuditLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

const sessionAuditQuery = `
	SELECT id, account_id, happened_on, happened_at, outcome, ip, device
	FROM session_audit
	WHERE (? IS NULL OR happened_on || 'T' || happened_at >= ?)
	  AND (? IS NULL OR happened_on || 'T' || happened_at <= ?)
	  AND (? IS NULL OR account_id = ?)
	  AND (? IS NULL OR outcome = ?)
	ORDER BY happened_on DESC, happened_at DESC
	LIMIT ?
`

// ListSessionAudit returns audit entries matching the filter criteria.
// Results are returned newest first.
func (s *SQLiteStore) ListSessionAudit(ctx context.Context, f SessionAuditFilter) ([]SessionAuditEntry, error) {
	limit := normalizeAuditLimit(f.Limit)

	var sinceStr, untilStr, outcomeStr *string
	if f.Since != nil {
		v := f.Since.UTC().Format("2006-01-02T15:04:05")
		sinceStr = &v
	}
	if f.Until != nil {
		v := f.Until.UTC().Format("2006-01-02T15:04:05")
		untilStr = &v
	}
	if f.Outcome != nil {
		v := string(*f.Outcome)
		outcomeStr = &v
	}

	rows, err := s.db.QueryContext(ctx, sessionAuditQuery,
		sinceStr, sinceStr,
		untilStr, untilStr,
		f.AccountID, f.AccountID,
		outcomeStr, outcomeStr,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying session audit: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []SessionAuditEntry
	for rows.Next() {
		var e SessionAuditEntry
		var accountID, device sql.NullString
		var dateStr, timeStr, outcome string

		if err := rows.Scan(&e.ID, &accountID, &dateStr, &timeStr, &outcome, &e.IP, &device); err != nil {
			return nil, fmt.Errorf("scanning session audit entry: %w", err)
		}

		e.Outcome = AuditOutcome(outcome)
		if accountID.Valid {
			e.AccountID = &accountID.String
		}
		if device.Valid {
			e.Device = &device.String
		}

		e.When, err = time.Parse("2006-01-02T15:04:05", dateStr+"T"+timeStr)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session audit entries: %w", err)
	}

	if entries == nil {
		entries = []SessionAuditEntry{}
	}
	return entries, nil
}
