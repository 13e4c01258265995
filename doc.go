// Package trustcore provides the trust and access core for IT
// administration tooling: PBKDF2-based credential hashing, authenticated
// encryption for secrets at rest, opaque session tokens with in-memory or
// Redis-backed stores, a fixed role/permission catalog, and an
// authentication coordinator that audits every decision branch.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// trustcore is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (Outcome, AuditEvent, MetricsSnapshot, etc.).
// The cryptographic primitives live in the secrets sub-package, input
// validation in inputguard, session storage in session, and the
// role/permission catalog in authz. The Engine coordinates them; it never
// re-implements them.
//
// # What this package must NOT do
//
//   - Expose Redis clients, store internals, or wire encodings in its
//     public API.
//   - Write raw session tokens or passwords into audit events or logs.
//   - Distinguish "unknown user" from "wrong password" in anything
//     returned to a caller.
//
// # Performance contract
//
// ValidateSession is the hot path. It performs a single store lookup and
// must not allocate beyond the store's own bookkeeping. Authenticate is
// allowed one identity-backend round-trip for credentials and one for
// roles, plus one store write.
package trustcore
