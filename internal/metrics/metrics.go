// ABOUTME: Prometheus counters for authentication outcomes
// ABOUTME: Registered on the default registry and served by the /metrics endpoint

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginsTotal counts credential login attempts by audit outcome.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coachd",
		Name:      "logins_total",
		Help:      "Credential login attempts by outcome.",
	}, []string{"outcome"})

	// GuestSessionsTotal counts guest session creations by outcome.
	GuestSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coachd",
		Name:      "guest_sessions_total",
		Help:      "Guest session creations by outcome.",
	}, []string{"outcome"})

	// TokenValidationsTotal counts bearer token validations by result code.
	TokenValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coachd",
		Name:      "token_validations_total",
		Help:      "Bearer token validations by result.",
	}, []string{"result"})

	// RequestPanicsTotal counts requests rescued by the failure envelope.
	RequestPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coachd",
		Name:      "request_panics_total",
		Help:      "Requests that faulted and were answered by the failure envelope.",
	})
)
