package trustcore

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/opsfort/trustcore/authz"
	"github.com/opsfort/trustcore/secrets"
	"github.com/opsfort/trustcore/session"
)

// Builder defines a public type used by trustcore APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	catalog  *authz.Catalog
	provider IdentityProvider
	store    session.Store

	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithCatalog describes the withcatalog operation and its observable behavior.
//
// WithCatalog may return an error when input validation, dependency calls, or security checks fail.
// WithCatalog does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCatalog(catalog *authz.Catalog) *Builder {
	b.catalog = catalog
	return b
}

// WithIdentityProvider describes the withidentityprovider operation and its observable behavior.
//
// WithIdentityProvider may return an error when input validation, dependency calls, or security checks fail.
// WithIdentityProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithIdentityProvider(provider IdentityProvider) *Builder {
	b.provider = provider
	return b
}

// WithSessionStore describes the withsessionstore operation and its observable behavior.
//
// WithSessionStore may return an error when input validation, dependency calls, or security checks fail.
// WithSessionStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.provider == nil {
		return nil, errors.New("identity provider required")
	}
	if cfg.Security.ProductionMode {
		if _, ok := b.provider.(*StaticProvider); ok {
			return nil, errors.New("ProductionMode forbids the static identity provider")
		}
	}

	// -------- SECRETS ENGINE --------
	secretsEngine, err := secrets.NewEngine(secrets.Config{
		Iterations: cfg.Secrets.Iterations,
		SaltLength: cfg.Secrets.SaltLength,
		KeyLength:  cfg.Secrets.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	// -------- AUTHZ CATALOG --------
	catalog := b.catalog
	if catalog == nil {
		catalog = authz.DefaultCatalog()
	}
	if !catalog.Frozen() {
		catalog.Freeze()
	}

	for _, role := range cfg.Security.BaselineRoles {
		if !catalog.KnownRole(role) {
			return nil, errors.New("Security BaselineRoles references unknown role " + role)
		}
	}

	// -------- SESSION STORE --------
	store := b.store
	if store == nil {
		if b.redis != nil {
			store = session.NewRedisStore(b.redis, cfg.Session.RedisPrefix, secretsEngine.NewToken)
		} else {
			store = session.NewMemoryStore(session.MemoryOptions{
				Tokens:        secretsEngine.NewToken,
				SweepInterval: cfg.Session.SweepInterval,
			})
		}
	}

	engine := &Engine{
		config:   cfg,
		secrets:  secretsEngine,
		catalog:  catalog,
		sessions: store,
		provider: b.provider,
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
