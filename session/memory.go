package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default [Store]: a process-local session table behind
// a single mutex. Every read that drives an expiry decision holds the same
// lock as every write, so validate-then-update is atomic.
//
// Sessions do not survive process restart by design.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	byUser   map[string]map[string]struct{}

	tokens TokenSource
	now    func() time.Time

	sweepDone chan struct{}
	closeOnce sync.Once
}

// MemoryOptions configures a [MemoryStore].
type MemoryOptions struct {
	// Tokens generates session tokens. Required.
	Tokens TokenSource
	// SweepInterval enables a background goroutine that removes expired
	// sessions. Zero disables it; lazy expiry at validation time applies
	// either way.
	SweepInterval time.Duration
}

// NewMemoryStore creates a [MemoryStore] and starts the sweeper when
// configured.
func NewMemoryStore(opts MemoryOptions) *MemoryStore {
	m := &MemoryStore{
		sessions:  make(map[string]*Session),
		byUser:    make(map[string]map[string]struct{}),
		tokens:    opts.Tokens,
		now:       time.Now,
		sweepDone: make(chan struct{}),
	}

	if opts.SweepInterval > 0 {
		go m.sweepLoop(opts.SweepInterval)
	}

	return m
}

// Create generates a token, stores the session with expiresAt = now + ttl,
// and returns the token. A ttl of zero (or less) produces a session that is
// already expired and will never validate.
func (m *MemoryStore) Create(_ context.Context, username string, roles []string, ttl time.Duration) (string, error) {
	token, err := m.tokens()
	if err != nil {
		return "", err
	}

	if ttl < 0 {
		ttl = 0
	}

	now := m.now()
	sess := &Session{
		Token:        token,
		Username:     username,
		Roles:        append([]string(nil), roles...),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		LastActivity: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[token]; exists {
		return "", ErrTokenCollision
	}

	m.sessions[token] = sess
	userSet, ok := m.byUser[username]
	if !ok {
		userSet = make(map[string]struct{})
		m.byUser[username] = userSet
	}
	userSet[token] = struct{}{}

	return token, nil
}

// Validate reports whether token identifies a live session. Unknown tokens
// report false; an expired session is removed and reports false; otherwise
// LastActivity advances and the session remains active.
func (m *MemoryStore) Validate(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return false, nil
	}

	now := m.now()
	if !now.Before(sess.ExpiresAt) {
		m.removeLocked(token, sess.Username)
		return false, nil
	}

	if now.After(sess.LastActivity) {
		sess.LastActivity = now
	}

	return true, nil
}

// Get returns a read-only snapshot of a live session without touching
// LastActivity. Expired sessions are removed and reported as not found.
func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(sess.ExpiresAt) {
		m.removeLocked(token, sess.Username)
		return nil, ErrNotFound
	}

	return sess.Clone(), nil
}

// Revoke removes a session. Revoking an unknown token is a no-op.
func (m *MemoryStore) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[token]; ok {
		m.removeLocked(token, sess.Username)
	}
	return nil
}

// RevokeAllForUser removes every session belonging to username.
func (m *MemoryStore) RevokeAllForUser(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token := range m.byUser[username] {
		delete(m.sessions, token)
	}
	delete(m.byUser, username)
	return nil
}

// ActiveCount returns the number of stored sessions, including any that
// have expired but not yet been observed by a validation or sweep.
func (m *MemoryStore) ActiveCount(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions), nil
}

// Sweep removes every expired session and reports how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for token, sess := range m.sessions {
		if !now.Before(sess.ExpiresAt) {
			m.removeLocked(token, sess.Username)
			removed++
		}
	}
	return removed
}

// Close stops the background sweeper, if one was started.
func (m *MemoryStore) Close() {
	m.closeOnce.Do(func() {
		close(m.sweepDone)
	})
}

func (m *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.sweepDone:
			return
		}
	}
}

func (m *MemoryStore) removeLocked(token, username string) {
	delete(m.sessions, token)
	if userSet, ok := m.byUser[username]; ok {
		delete(userSet, token)
		if len(userSet) == 0 {
			delete(m.byUser, username)
		}
	}
}
