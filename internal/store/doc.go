// Package store provides persistent storage for the auth core using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with specialized
// interfaces:
//
//   - AccountStore: registered accounts and their session token/expiry pair
//   - GuestStore: anonymous session tokens
//   - AuditStore: append-only session audit log
//   - ExpirationStore: role/category expiration configuration rows
//   - CatalogStore: public recipe catalog for guest-browsable feeds
//
// SQLiteStore implements all interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries.
//
// # Data Models
//
//   - Account: login handle, bcrypt password hash, role, S/N flags, and the
//     mutable token/expiry pair written by login and cleared by admin revoke
//   - GuestToken: write-once anonymous session row
//   - SessionAuditEntry: immutable authentication attempt record
//   - ExpirationRule: category-to-hours configuration (0 = never expires)
//   - Recipe: public catalog row
//
// # Legacy flag encoding
//
// The shared data layer stores booleans as 'S'/'N' single-character flags.
// That encoding exists only inside this package; every model exposes real
// booleans, translated at the scan/exec boundary. Unknown flag values read
// as false.
//
// # Concurrency
//
// The only mutable shared state is the accounts token/expiry pair. Writes
// are unconditional overwrites: concurrent logins for the same account race
// and the last write wins, which is the documented product behavior.
package store
