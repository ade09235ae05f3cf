// Package auth implements credential verification, session token
// issuance, and bearer token resolution.
//
// # Session model
//
// Sessions are opaque random tokens stored alongside the account row.
// Each account holds at most one live token: a successful login
// unconditionally overwrites whatever token was there before, so a
// second login from another device silently signs the first one out.
// Token expiry is a nullable timestamp; a NULL expiry means the token
// never expires.
//
// Guest sessions are UUIDv4 tokens persisted in their own table. They
// carry no credentials and resolve to a read-only catalog principal.
//
// # Resolution order
//
// Validator.ResolveUser checks, in order: token present, token known,
// token unexpired, account enabled. The first failing check decides the
// rejection; disabled accounts report 403, everything before that 401.
// ResolveGuestOrUser tries the user path first and falls back to the
// guest table, returning the user-path failure when neither matches.
//
// # Timing
//
// Unknown handles are charged a bcrypt comparison against a fixed dummy
// hash so login latency does not reveal whether a handle exists. Token
// lookups go through an index and are re-checked with a constant-time
// comparison.
package auth
