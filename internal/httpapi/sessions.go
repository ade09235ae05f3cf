// ABOUTME: Session audit listing handler with time, account, and outcome filters
// ABOUTME: Read access is gated on the audit permission

package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/auth"
	"github.com/nutrivia/coach-gateway/internal/authz"
	"github.com/nutrivia/coach-gateway/internal/store"
)

type auditEntryView struct {
	ID        string  `json:"id"`
	AccountID *string `json:"accountId,omitempty"`
	When      string  `json:"when"`
	Outcome   string  `json:"outcome"`
	IP        string  `json:"ip,omitempty"`
	Device    *string `json:"device,omitempty"`
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())
	if err := authz.Check(principal.Role, authz.ResourceAuditoria); err != nil {
		writeError(w, err)
		return
	}

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := s.store.ListSessionAudit(r.Context(), filter)
	if err != nil {
		writeError(w, storeError(err))
		return
	}

	views := make([]auditEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, auditEntryView{
			ID:        e.ID,
			AccountID: e.AccountID,
			When:      e.When.Format(time.RFC3339),
			Outcome:   string(e.Outcome),
			IP:        e.IP,
			Device:    e.Device,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": views})
}

func auditFilterFromQuery(r *http.Request) (store.SessionAuditFilter, error) {
	var filter store.SessionAuditFilter
	q := r.URL.Query()

	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperr.New(apperr.KindValidation, apperr.CodeValidation, "since must be RFC3339")
		}
		filter.Since = &t
	}
	if v := q.Get("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperr.New(apperr.KindValidation, apperr.CodeValidation, "until must be RFC3339")
		}
		filter.Until = &t
	}
	if v := q.Get("accountId"); v != "" {
		filter.AccountID = &v
	}
	if v := q.Get("outcome"); v != "" {
		outcome := store.AuditOutcome(v)
		filter.Outcome = &outcome
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, apperr.New(apperr.KindValidation, apperr.CodeValidation, "limit must be a non-negative integer")
		}
		filter.Limit = n
	}

	return filter, nil
}
