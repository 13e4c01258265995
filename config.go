package trustcore

import (
	"errors"
	"time"

	"github.com/opsfort/trustcore/authz"
	"github.com/opsfort/trustcore/session"
)

// Config defines a public type used by trustcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secrets  SecretsConfig
	Session  SessionConfig
	Identity IdentityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	Security SecurityConfig
}

/*
====================================
SECRETS CONFIG
====================================
*/

// SecretsConfig defines a public type used by trustcore APIs.
//
// SecretsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SecretsConfig struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by trustcore APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	TTL           time.Duration
	RedisPrefix   string
	SweepInterval time.Duration
}

/*
====================================
IDENTITY CONFIG
====================================
*/

// IdentityConfig defines a public type used by trustcore APIs.
//
// IdentityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type IdentityConfig struct {
	Timeout time.Duration
}

// AuditConfig defines a public type used by trustcore APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by trustcore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig defines a public type used by trustcore APIs.
//
// SecurityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SecurityConfig struct {
	ProductionMode        bool
	BaselineRoles         []string
	GenericFailureMessage string
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Secrets: SecretsConfig{
			Iterations: 600000,
			SaltLength: 32,
			KeyLength:  32,
		},
		Session: SessionConfig{
			TTL:           session.DefaultTTL,
			RedisPrefix:   "tc",
			SweepInterval: 5 * time.Minute,
		},
		Identity: IdentityConfig{
			Timeout: 10 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Security: SecurityConfig{
			ProductionMode:        false,
			BaselineRoles:         []string{authz.RoleTechnician, authz.RoleAdministrator},
			GenericFailureMessage: "invalid username or password",
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Security.BaselineRoles = cloneStrings(cfg.Security.BaselineRoles)
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Secrets
	if c.Secrets.Iterations < 10000 {
		return errors.New("Secrets Iterations must be >= 10000")
	}
	if c.Secrets.SaltLength < 32 {
		return errors.New("Secrets SaltLength must be >= 32")
	}
	if c.Secrets.KeyLength < 32 {
		return errors.New("Secrets KeyLength must be >= 32")
	}

	// Session
	if c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0")
	}
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix is required")
	}
	if c.Session.SweepInterval < 0 {
		return errors.New("Session SweepInterval must be >= 0")
	}

	// Identity
	if c.Identity.Timeout <= 0 {
		return errors.New("Identity Timeout must be > 0")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	// Security
	if len(c.Security.BaselineRoles) == 0 {
		return errors.New("Security BaselineRoles must not be empty")
	}
	if c.Security.GenericFailureMessage == "" {
		return errors.New("Security GenericFailureMessage is required")
	}

	if c.Security.ProductionMode {
		if !c.Audit.Enabled {
			return errors.New("ProductionMode requires Audit Enabled")
		}
		if c.Secrets.Iterations < 600000 {
			return errors.New("ProductionMode requires Secrets Iterations >= 600000")
		}
		if c.Session.TTL > 24*time.Hour {
			return errors.New("ProductionMode requires Session TTL <= 24h")
		}
		if c.Identity.Timeout > 30*time.Second {
			return errors.New("ProductionMode requires Identity Timeout <= 30s")
		}
	}

	return nil
}
