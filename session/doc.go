// Package session tracks live authenticated contexts keyed by opaque,
// high-entropy tokens.
//
// Two [Store] implementations are provided. [MemoryStore] is the default:
// a single-mutex map with lazy expiry, matching the design constraint that
// process restart invalidates all sessions. [RedisStore] persists sessions
// in Redis with a versioned binary encoding for deployments that want
// sessions to survive restarts.
//
// Expiry is always enforced lazily at validation time; the optional
// background sweeper of [MemoryStore] only reclaims memory earlier.
package session
