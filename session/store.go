package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the session lifetime applied when the caller does not
// configure one.
const DefaultTTL = 8 * time.Hour

var (
	// ErrNotFound is returned when a token does not identify a live session.
	ErrNotFound = errors.New("session not found")
	// ErrTokenCollision is returned when a freshly generated token already
	// identifies a session. With 256-bit tokens this indicates a broken
	// token source, not bad luck.
	ErrTokenCollision = errors.New("session token collision")
)

// TokenSource produces opaque session tokens. Production wiring injects the
// secrets engine's generator.
type TokenSource func() (string, error)

// Store is the session table contract shared by the in-memory and Redis
// implementations.
//
// Validate fails closed: unknown, expired, and backend-error cases all
// report false. Expired sessions are removed on detection. Revoke is
// idempotent.
type Store interface {
	Create(ctx context.Context, username string, roles []string, ttl time.Duration) (string, error)
	Validate(ctx context.Context, token string) (bool, error)
	Get(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, username string) error
	ActiveCount(ctx context.Context) (int, error)
}
