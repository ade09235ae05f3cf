// ABOUTME: Guest-browsable public recipe catalog handler
// ABOUTME: The permission check still runs; guests hold exactly this one grant

package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nutrivia/coach-gateway/internal/auth"
	"github.com/nutrivia/coach-gateway/internal/authz"
)

type recipeView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())
	if err := authz.Check(principal.Role, authz.ResourceRecetas); err != nil {
		writeError(w, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	recipes, err := s.store.ListPublicRecipes(r.Context(), limit)
	if err != nil {
		writeError(w, storeError(err))
		return
	}

	views := make([]recipeView, 0, len(recipes))
	for _, rec := range recipes {
		views = append(views, recipeView{
			ID:        rec.ID,
			Title:     rec.Title,
			Summary:   rec.Summary,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipes": views})
}
