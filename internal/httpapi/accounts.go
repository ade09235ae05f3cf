// ABOUTME: Account read/update handlers with the self-service carve-out
// ABOUTME: Admin-only revoke clears the token/expiry pair in one step

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/auth"
	"github.com/nutrivia/coach-gateway/internal/authz"
	"github.com/nutrivia/coach-gateway/internal/store"
)

type accountUpdateRequest struct {
	Secret     *string `json:"secret,omitempty"`
	APIBaseURL *string `json:"apiBaseUrl,omitempty"`
	Active     *bool   `json:"active,omitempty"`
	WebAccess  *bool   `json:"webAccess,omitempty"`
	UserType   *string `json:"userType,omitempty"`
}

// guardAccountAccess applies the self-service carve-out: a principal always
// reaches its own account row; anyone else needs the user-management
// permission. The identity comparison runs before the matrix is consulted.
func guardAccountAccess(principal *auth.Principal, targetID string) error {
	if principal.ID == targetID && !principal.IsGuest {
		return nil
	}
	return authz.Check(principal.Role, authz.ResourceUsuarios)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	if err := guardAccountAccess(principal, targetID); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.store.GetAccountByID(r.Context(), targetID)
	if err != nil {
		writeError(w, storeError(err))
		return
	}

	writeJSON(w, http.StatusOK, viewOf(account))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	if err := guardAccountAccess(principal, targetID); err != nil {
		writeError(w, err)
		return
	}

	var req accountUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	upd := store.AccountUpdate{APIBaseURL: req.APIBaseURL}

	if req.Secret != nil {
		if *req.Secret == "" {
			writeError(w, apperr.New(apperr.KindValidation, apperr.CodeValidation, "secret must not be empty"))
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Secret), s.config.BcryptCost)
		if err != nil {
			writeError(w, apperr.Wrap(apperr.KindInternal, apperr.CodeInternal, "internal server error", err))
			return
		}
		hashed := string(hash)
		upd.PasswordHash = &hashed
	}

	// Enablement and role changes are user management, never self-service.
	if req.Active != nil || req.WebAccess != nil || req.UserType != nil {
		if err := authz.Check(principal.Role, authz.ResourceUsuarios); err != nil {
			writeError(w, err)
			return
		}
		upd.Active = req.Active
		upd.WebAccess = req.WebAccess
		if req.UserType != nil {
			role := authz.Role(*req.UserType)
			if !role.IsValid() {
				writeError(w, apperr.New(apperr.KindValidation, apperr.CodeValidation, "unknown userType"))
				return
			}
			upd.Role = &role
		}
	}

	if err := s.store.UpdateAccount(r.Context(), targetID, upd); err != nil {
		writeError(w, storeError(err))
		return
	}

	account, err := s.store.GetAccountByID(r.Context(), targetID)
	if err != nil {
		writeError(w, storeError(err))
		return
	}

	writeJSON(w, http.StatusOK, viewOf(account))
}

func (s *Server) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	if err := s.store.ClearAccountToken(r.Context(), targetID); err != nil {
		writeError(w, storeError(err))
		return
	}

	s.logger.Info("session revoked", "account_id", targetID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}
