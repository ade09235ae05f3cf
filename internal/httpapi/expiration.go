// ABOUTME: Expiration rule listing and editing handlers
// ABOUTME: Hours of zero configures sessions that never expire

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/auth"
	"github.com/nutrivia/coach-gateway/internal/authz"
	"github.com/nutrivia/coach-gateway/internal/store"
)

type expirationRuleView struct {
	Category  string `json:"category"`
	Hours     int    `json:"hours"`
	UpdatedAt string `json:"updatedAt"`
}

type setExpirationRequest struct {
	Hours *int `json:"hours"`
}

// validExpirationCategory limits rule edits to the categories the policy
// actually consults.
func validExpirationCategory(category string) bool {
	if category == store.ExpirationCategoryGuest || category == store.ExpirationCategoryLinkedPatient {
		return true
	}
	return authz.Role(category).IsValid()
}

func (s *Server) handleListExpiration(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())
	if err := authz.Check(principal.Role, authz.ResourceCaducidad); err != nil {
		writeError(w, err)
		return
	}

	rules, err := s.store.ListExpirationRules(r.Context())
	if err != nil {
		writeError(w, storeError(err))
		return
	}

	views := make([]expirationRuleView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, expirationRuleView{
			Category:  rule.Category,
			Hours:     rule.Hours,
			UpdatedAt: rule.UpdatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"rules": views})
}

func (s *Server) handleSetExpiration(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())
	if err := authz.Check(principal.Role, authz.ResourceCaducidad); err != nil {
		writeError(w, err)
		return
	}

	category := chi.URLParam(r, "category")
	if !validExpirationCategory(category) {
		writeError(w, apperr.New(apperr.KindValidation, apperr.CodeValidation, "unknown expiration category"))
		return
	}

	var req setExpirationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Hours == nil || *req.Hours < 0 {
		writeError(w, apperr.New(apperr.KindValidation, apperr.CodeValidation, "hours must be a non-negative integer"))
		return
	}

	if err := s.store.SetExpirationHours(r.Context(), category, *req.Hours); err != nil {
		writeError(w, storeError(err))
		return
	}

	s.logger.Info("expiration rule updated", "category", category, "hours", *req.Hours)
	writeJSON(w, http.StatusOK, expirationRuleView{
		Category:  category,
		Hours:     *req.Hours,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
