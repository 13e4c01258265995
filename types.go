package trustcore

import (
	"context"
	"time"
)

// Identity is the result of a credential check against the identity
// backend. Valid reports whether the username/password pair was accepted;
// Username carries the canonical account name as the backend knows it.
type Identity struct {
	Valid    bool
	Username string
}

// IdentityProvider is the interface that callers must implement to
// integrate trustcore with their directory or user database. It covers
// credential verification and role lookup. Both methods receive a context
// already bounded by [IdentityConfig.Timeout].
type IdentityProvider interface {
	Authenticate(ctx context.Context, username, password string) (Identity, error)
	Roles(ctx context.Context, username string) ([]string, error)
}

// Outcome is returned by [Engine.Authenticate]. On success it carries the
// opaque session token, the canonical username, the granted roles, and the
// session expiry. On failure Success is false and Message holds a generic,
// user-displayable explanation that never reveals which check failed.
type Outcome struct {
	Success   bool
	Token     string
	Username  string
	Roles     []string
	ExpiresAt time.Time
	Message   string
}
