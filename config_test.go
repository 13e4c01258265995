package trustcore

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsWeakSecrets(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.Secrets.Iterations = 9999 },
		func(c *Config) { c.Secrets.SaltLength = 16 },
		func(c *Config) { c.Secrets.KeyLength = 16 },
	}
	for i, mutate := range cases {
		cfg := defaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: weak secrets config accepted", i)
		}
	}
}

func TestValidateRejectsBadSessionConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Session.TTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero session TTL accepted")
	}

	cfg = defaultConfig()
	cfg.Session.RedisPrefix = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty redis prefix accepted")
	}
}

func TestValidateRejectsBadIdentityTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.Identity.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero identity timeout accepted")
	}
}

func TestValidateRejectsEmptyBaselineRoles(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.BaselineRoles = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty baseline roles accepted")
	}
}

func TestValidateProductionModeHardening(t *testing.T) {
	base := defaultConfig()
	base.Security.ProductionMode = true
	base.Audit.Enabled = true

	if err := base.Validate(); err != nil {
		t.Fatalf("hardened production config rejected: %v", err)
	}

	cfg := base
	cfg.Audit.Enabled = false
	if err := cfg.Validate(); err == nil {
		t.Fatal("production mode without audit accepted")
	}

	cfg = base
	cfg.Secrets.Iterations = 10000
	if err := cfg.Validate(); err == nil {
		t.Fatal("production mode with low iteration count accepted")
	}

	cfg = base
	cfg.Session.TTL = 48 * time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("production mode with 48h session TTL accepted")
	}

	cfg = base
	cfg.Identity.Timeout = time.Minute
	if err := cfg.Validate(); err == nil {
		t.Fatal("production mode with 1m identity timeout accepted")
	}
}

func TestCloneConfigIsolatesBaselineRoles(t *testing.T) {
	cfg := defaultConfig()
	clone := cloneConfig(cfg)

	clone.Security.BaselineRoles[0] = "Mutated"
	if cfg.Security.BaselineRoles[0] == "Mutated" {
		t.Fatal("cloneConfig shares the baseline roles slice")
	}
}
