package session

import "time"

// Session is a live authenticated context. It is owned exclusively by its
// [Store]; only the store mutates LastActivity, and only on successful
// validation. Invariants: ExpiresAt is never before CreatedAt, and
// LastActivity is monotonically non-decreasing while the session is live.
type Session struct {
	Token    string
	Username string
	Roles    []string

	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastActivity time.Time
}

// Clone returns a deep copy safe to hand to callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Roles != nil {
		out.Roles = append([]string(nil), s.Roles...)
	}
	return &out
}
