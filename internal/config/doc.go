// Package config handles configuration loading for coach-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${COACH_DB_PATH}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	  base_url: "https://api.nutrivia.example"  # fallback API base URL for clients
//
// Database:
//
//	database:
//	  path: "/var/lib/coach/gateway.db"
//
// Authentication:
//
//	auth:
//	  bcrypt_cost: 12   # password hash cost, defaults to bcrypt.DefaultCost
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Metrics:
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
// # Validation
//
// Load() validates:
//
//   - Server HTTP address presence
//   - Database path presence
//   - bcrypt cost range
//   - Logging level and format values
package config
