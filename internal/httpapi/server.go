// ABOUTME: HTTP API server wiring routes, auth middleware, and the failure envelope
// ABOUTME: Every route lives under /api with a chi router

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/auth"
	"github.com/nutrivia/coach-gateway/internal/store"
)

// Store combines every persistence interface the API surface needs.
type Store interface {
	store.AccountStore
	store.GuestStore
	store.AuditStore
	store.ExpirationStore
	store.CatalogStore
}

// Config holds API server configuration.
type Config struct {
	// BaseURL is handed to clients that do not supply a usable API base URL
	// at login time.
	BaseURL string
	// BcryptCost is the cost for newly hashed passwords.
	BcryptCost int
	// MetricsEnabled exposes the Prometheus endpoint when true.
	MetricsEnabled bool
	// MetricsPath is the Prometheus endpoint path.
	MetricsPath string
}

// Server handles the REST API routes.
type Server struct {
	store     Store
	issuer    *auth.Issuer
	guests    *auth.GuestIssuer
	validator *auth.Validator
	config    Config
	logger    *slog.Logger
}

// New creates an API server wired against the given store.
func New(st Store, cfg Config) *Server {
	policy := auth.NewExpirationPolicy(st)
	return &Server{
		store:     st,
		issuer:    auth.NewIssuer(st, st, policy),
		guests:    auth.NewGuestIssuer(st, st, policy),
		validator: auth.NewValidator(st, st),
		config:    cfg,
		logger:    slog.Default().With("component", "httpapi"),
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(FailureEnvelope(s.logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, apperr.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, apperr.ErrMethod)
	})

	r.Route("/api", func(r chi.Router) {
		// Unauthenticated session entry points.
		r.Post("/login", s.handleLogin)
		r.Post("/guest", s.handleGuestLogin)

		// Guest-browsable catalog.
		r.Group(func(r chi.Router) {
			r.Use(auth.AllowGuest(s.validator))
			r.Get("/recipes", s.handleListRecipes)
		})

		// Registered users only.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(s.validator))

			r.Get("/accounts/{id}", s.handleGetAccount)
			r.Put("/accounts/{id}", s.handleUpdateAccount)
			r.Get("/sessions/audit", s.handleListAudit)
			r.Get("/expiration", s.handleListExpiration)
			r.Put("/expiration/{category}", s.handleSetExpiration)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin())
				r.Post("/accounts/{id}/revoke", s.handleRevokeToken)
			})
		})
	})

	if s.config.MetricsEnabled {
		r.Method(http.MethodGet, s.config.MetricsPath, promhttp.Handler())
	}

	return r
}
