// ABOUTME: Session entry handlers for credential login and anonymous guest sessions
// ABOUTME: Field names keep the legacy mobile client wire contract

package httpapi

import (
	"net"
	"net/http"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/auth"
	"github.com/nutrivia/coach-gateway/internal/store"
)

type loginRequest struct {
	LoginHandle      string  `json:"loginHandle"`
	Secret           string  `json:"secret"`
	DeviceType       *string `json:"deviceType,omitempty"`
	ClientAPIBaseURL string  `json:"clientApiBaseUrl,omitempty"`
}

type loginResponse struct {
	Token               string      `json:"token"`
	TokenExpiresInHours int         `json:"tokenExpiresInHours"`
	Account             accountView `json:"account"`
}

type guestResponse struct {
	Token          string `json:"token"`
	UserType       string `json:"userType"`
	ExpiresInHours int    `json:"expiresInHours"`
}

// accountView is the client-facing account shape. The password hash and the
// raw token column never appear here.
type accountView struct {
	ID                 string  `json:"id"`
	LoginHandle        string  `json:"loginHandle"`
	UserType           string  `json:"userType"`
	Active             bool    `json:"active"`
	WebAccess          bool    `json:"webAccess"`
	LinkedPatientID    *string `json:"linkedPatientId,omitempty"`
	ResolvedAPIBaseURL string  `json:"resolvedApiBaseUrl,omitempty"`
}

func viewOf(a *store.Account) accountView {
	return accountView{
		ID:                 a.ID,
		LoginHandle:        a.Handle,
		UserType:           string(a.Role),
		Active:             a.Active,
		WebAccess:          a.WebAccess,
		LinkedPatientID:    a.PatientID,
		ResolvedAPIBaseURL: a.APIBaseURL,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.LoginHandle == "" || req.Secret == "" {
		writeError(w, apperr.New(apperr.KindValidation, apperr.CodeValidation, "loginHandle and secret are required"))
		return
	}

	result, err := s.issuer.Login(r.Context(), auth.LoginRequest{
		Handle:          req.LoginHandle,
		Secret:          req.Secret,
		Device:          req.DeviceType,
		ClientBaseURL:   req.ClientAPIBaseURL,
		FallbackBaseURL: s.fallbackBaseURL(r),
		OriginIP:        remoteIP(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:               result.Token,
		TokenExpiresInHours: result.ExpiresInHours,
		Account:             viewOf(result.Account),
	})
}

func (s *Server) handleGuestLogin(w http.ResponseWriter, r *http.Request) {
	session, err := s.guests.CreateSession(r.Context(), remoteIP(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, guestResponse{
		Token:          session.Token,
		UserType:       "Guest",
		ExpiresInHours: session.ExpiresInHours,
	})
}

// fallbackBaseURL is the server-derived API base URL used when the client
// does not declare a usable one.
func (s *Server) fallbackBaseURL(r *http.Request) string {
	if s.config.BaseURL != "" {
		return s.config.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
