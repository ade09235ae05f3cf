// ABOUTME: JSON response helpers shared by every API handler
// ABOUTME: Maps store and application errors onto the stable error shape

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	ae := apperr.FromError(err)
	writeEnvelope(w, ae.Status(), errorBody{Message: ae.Message, Code: ae.Code})
}

// storeError translates store sentinel errors into application errors before
// they reach a response body.
func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, store.ErrGuestTokenNotFound),
		errors.Is(err, store.ErrNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, store.ErrHandleExists):
		return apperr.New(apperr.KindValidation, apperr.CodeValidation, "login handle already exists")
	default:
		return apperr.Wrap(apperr.KindPersistence, apperr.CodeStoreUnavailable, "storage unavailable", err)
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap(apperr.KindValidation, apperr.CodeValidation, "malformed request body", err)
	}
	return nil
}
