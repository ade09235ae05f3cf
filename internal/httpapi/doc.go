// Package httpapi exposes the REST surface of the auth core.
//
// # Routes
//
// Session entry:
//
//	POST /api/login   credential login, mints a session token
//	POST /api/guest   anonymous guest session
//
// Authenticated:
//
//	GET  /api/accounts/{id}          self-service or user management
//	PUT  /api/accounts/{id}          self-service or user management
//	POST /api/accounts/{id}/revoke   admin only, clears the session
//	GET  /api/sessions/audit         audit permission
//	GET  /api/expiration             expiration permission
//	PUT  /api/expiration/{category}  expiration permission
//	GET  /api/recipes                guest-browsable catalog
//
// # Error contract
//
// Every failing response is exactly one JSON body of the shape
//
//	{"message": "...", "code": "..."}
//
// The FailureEnvelope middleware buffers handler output and substitutes that
// shape whenever a handler panics or produces a malformed error body, so
// clients can always parse what comes back. Unknown routes return the 404
// envelope and known routes with a wrong verb the 405 envelope.
//
// # Authorization
//
// Route middleware resolves the bearer token to a Principal before any
// handler runs; handlers then consult the permission matrix for their
// resource. The one carve-out is account access, where a principal reaches
// its own row without holding the user-management permission. All checks
// happen before any storage read for the protected resource.
package httpapi
