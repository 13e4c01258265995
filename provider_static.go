package trustcore

import (
	"context"
	"sync"

	"github.com/opsfort/trustcore/secrets"
)

// StaticProvider is an in-memory [IdentityProvider] backed by a fixed
// credential table. It exists for local development, examples, and tests;
// [Builder.Build] rejects it when ProductionMode is set.
type StaticProvider struct {
	mu      sync.RWMutex
	secrets *secrets.Engine
	users   map[string]staticUser
	decoy   string
}

type staticUser struct {
	record string
	roles  []string
}

// NewStaticProvider creates an empty [StaticProvider] that hashes
// passwords with the given secrets engine.
func NewStaticProvider(engine *secrets.Engine) *StaticProvider {
	// The decoy record keeps the unknown-username path as expensive as a
	// real verification so response timing does not disclose whether a
	// username exists.
	decoy, _ := engine.HashPassword("static-provider-decoy")
	return &StaticProvider{
		secrets: engine,
		users:   make(map[string]staticUser),
		decoy:   decoy,
	}
}

// AddUser registers a username with its password and roles. The password
// is hashed immediately and the plaintext is discarded.
func (p *StaticProvider) AddUser(username, password string, roles []string) error {
	if username == "" {
		return ErrInvalidArgument
	}

	record, err := p.secrets.HashPassword(password)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[username] = staticUser{
		record: record,
		roles:  append([]string(nil), roles...),
	}
	return nil
}

// Authenticate verifies the password against the stored hash. Unknown
// usernames and wrong passwords both report an invalid identity without
// error.
func (p *StaticProvider) Authenticate(_ context.Context, username, password string) (Identity, error) {
	p.mu.RLock()
	user, ok := p.users[username]
	p.mu.RUnlock()

	if !ok {
		p.secrets.VerifyPassword(password, p.decoy)
		return Identity{}, nil
	}
	if !p.secrets.VerifyPassword(password, user.record) {
		return Identity{}, nil
	}
	return Identity{Valid: true, Username: username}, nil
}

// Roles returns the roles registered for username. Unknown usernames
// return no roles.
func (p *StaticProvider) Roles(_ context.Context, username string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	user, ok := p.users[username]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), user.roles...), nil
}
