package trustcore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/opsfort/trustcore/authz"
	"github.com/opsfort/trustcore/inputguard"
	"github.com/opsfort/trustcore/secrets"
	"github.com/opsfort/trustcore/session"
)

// Engine defines a public type used by trustcore APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config   Config
	secrets  *secrets.Engine
	catalog  *authz.Catalog
	sessions session.Store
	provider IdentityProvider
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
	if m, ok := e.sessions.(*session.MemoryStore); ok {
		m.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Secrets describes the secrets operation and its observable behavior.
//
// Secrets may return an error when input validation, dependency calls, or security checks fail.
// Secrets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Secrets() *secrets.Engine {
	if e == nil {
		return nil
	}
	return e.secrets
}

// Catalog describes the catalog operation and its observable behavior.
//
// Catalog may return an error when input validation, dependency calls, or security checks fail.
// Catalog does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Catalog() *authz.Catalog {
	if e == nil {
		return nil
	}
	return e.catalog
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

// Authenticate describes the authenticate operation and its observable behavior.
//
// Authenticate may return an error when input validation, dependency calls, or security checks fail.
// Authenticate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Authenticate(ctx context.Context, username, password string) (*Outcome, error) {
	if e == nil || e.provider == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}

	failure := &Outcome{Message: e.config.Security.GenericFailureMessage}

	if username == "" || password == "" {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, username, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "empty_credentials",
			}
		})
		return failure, ErrInvalidCredentials
	}

	if result := inputguard.Validate(username, inputguard.KindUsername); !result.IsValid() {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, username, "", ErrValidationFailed, func() map[string]string {
			return map[string]string{
				"reason": "username_rejected",
			}
		})
		return failure, ErrValidationFailed
	}

	identity, err := e.checkCredentials(ctx, username, password)
	if err != nil {
		e.metricInc(MetricLoginServiceError)
		e.emitAudit(ctx, auditEventLoginFailure, false, username, "", ErrServiceUnavailable, func() map[string]string {
			return map[string]string{
				"reason": "backend_unavailable",
			}
		})
		return failure, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if !identity.Valid {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, username, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "credentials_rejected",
			}
		})
		return failure, ErrInvalidCredentials
	}

	canonical := identity.Username
	if canonical == "" {
		canonical = username
	}

	roles, err := e.lookupRoles(ctx, canonical)
	if err != nil {
		e.metricInc(MetricLoginServiceError)
		e.emitAudit(ctx, auditEventLoginFailure, false, canonical, "", ErrServiceUnavailable, func() map[string]string {
			return map[string]string{
				"reason": "role_lookup_unavailable",
			}
		})
		return failure, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if !e.hasBaselineRole(roles) {
		e.metricInc(MetricLoginDenied)
		e.emitAudit(ctx, auditEventLoginDenied, false, canonical, "", ErrAccessDenied, func() map[string]string {
			return map[string]string{
				"reason": "no_baseline_role",
			}
		})
		return failure, ErrAccessDenied
	}

	token, err := e.sessions.Create(ctx, canonical, roles, e.config.Session.TTL)
	if err != nil {
		e.metricInc(MetricLoginServiceError)
		e.emitAudit(ctx, auditEventLoginFailure, false, canonical, "", ErrServiceUnavailable, func() map[string]string {
			return map[string]string{
				"reason": "session_creation_failed",
			}
		})
		return failure, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	e.metricInc(MetricSessionCreated)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, canonical, sessionRef(token), nil, func() map[string]string {
		return map[string]string{
			"role_count": strconv.Itoa(len(roles)),
		}
	})

	return &Outcome{
		Success:   true,
		Token:     token,
		Username:  canonical,
		Roles:     roles,
		ExpiresAt: time.Now().Add(e.config.Session.TTL),
	}, nil
}

// ValidateSession describes the validatesession operation and its observable behavior.
//
// ValidateSession may return an error when input validation, dependency calls, or security checks fail.
// ValidateSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ValidateSession(ctx context.Context, token string) (bool, error) {
	if e == nil || e.sessions == nil {
		return false, ErrEngineNotReady
	}
	if token == "" {
		e.metricInc(MetricSessionRejected)
		return false, nil
	}

	start := time.Now()
	ok, err := e.sessions.Validate(ctx, token)
	e.metricObserve(MetricValidateLatency, time.Since(start))

	if err != nil {
		e.metricInc(MetricSessionRejected)
		e.emitAudit(ctx, auditEventSessionRejected, false, "", sessionRef(token), ErrServiceUnavailable, nil)
		return false, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if !ok {
		e.metricInc(MetricSessionRejected)
		e.emitAudit(ctx, auditEventSessionRejected, false, "", sessionRef(token), ErrSessionNotFound, nil)
		return false, nil
	}

	e.metricInc(MetricSessionValidated)
	return true, nil
}

// SessionInfo describes the sessioninfo operation and its observable behavior.
//
// SessionInfo may return an error when input validation, dependency calls, or security checks fail.
// SessionInfo does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SessionInfo(ctx context.Context, token string) (*session.Session, error) {
	if e == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}

	sess, err := e.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return sess, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}

	if err := e.sessions.Revoke(ctx, token); err != nil {
		e.emitAudit(ctx, auditEventLogoutSession, false, "", sessionRef(token), ErrServiceUnavailable, nil)
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogoutSession, true, "", sessionRef(token), nil, nil)
	return nil
}

// LogoutAll describes the logoutall operation and its observable behavior.
//
// LogoutAll may return an error when input validation, dependency calls, or security checks fail.
// LogoutAll does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) LogoutAll(ctx context.Context, username string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}

	if err := e.sessions.RevokeAllForUser(ctx, username); err != nil {
		e.emitAudit(ctx, auditEventLogoutAll, false, username, "", ErrServiceUnavailable, nil)
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	e.metricInc(MetricLogoutAll)
	e.emitAudit(ctx, auditEventLogoutAll, true, username, "", nil, nil)
	return nil
}

// HasPermission describes the haspermission operation and its observable behavior.
//
// HasPermission may return an error when input validation, dependency calls, or security checks fail.
// HasPermission does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) HasPermission(ctx context.Context, username, permission string) (bool, error) {
	if e == nil || e.provider == nil || e.catalog == nil {
		return false, ErrEngineNotReady
	}

	roles, err := e.lookupRoles(ctx, username)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if !e.catalog.AnyRoleHasPermission(roles, permission) {
		e.metricInc(MetricPermissionDenied)
		e.emitAudit(ctx, auditEventPermissionDenied, false, username, "", ErrAccessDenied, func() map[string]string {
			return map[string]string{
				"permission": permission,
			}
		})
		return false, nil
	}

	e.metricInc(MetricPermissionGranted)
	return true, nil
}

// AuthorizeToken describes the authorizetoken operation and its observable behavior.
//
// AuthorizeToken may return an error when input validation, dependency calls, or security checks fail.
// AuthorizeToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuthorizeToken(ctx context.Context, token, permission string) (bool, error) {
	if e == nil || e.sessions == nil || e.catalog == nil {
		return false, ErrEngineNotReady
	}

	sess, err := e.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			e.metricInc(MetricSessionRejected)
			e.emitAudit(ctx, auditEventPermissionDenied, false, "", sessionRef(token), ErrSessionNotFound, func() map[string]string {
				return map[string]string{
					"permission": permission,
				}
			})
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if !e.catalog.AnyRoleHasPermission(sess.Roles, permission) {
		e.metricInc(MetricPermissionDenied)
		e.emitAudit(ctx, auditEventPermissionDenied, false, sess.Username, sessionRef(token), ErrAccessDenied, func() map[string]string {
			return map[string]string{
				"permission": permission,
			}
		})
		return false, nil
	}

	e.metricInc(MetricPermissionGranted)
	return true, nil
}

func (e *Engine) checkCredentials(ctx context.Context, username, password string) (Identity, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.config.Identity.Timeout)
	defer cancel()

	identity, err := e.provider.Authenticate(callCtx, username, password)
	if err != nil {
		return Identity{}, err
	}
	if callCtx.Err() != nil {
		return Identity{}, callCtx.Err()
	}
	return identity, nil
}

func (e *Engine) lookupRoles(ctx context.Context, username string) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.config.Identity.Timeout)
	defer cancel()

	roles, err := e.provider.Roles(callCtx, username)
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (e *Engine) hasBaselineRole(roles []string) bool {
	for _, role := range roles {
		if !e.catalog.KnownRole(role) {
			continue
		}
		for _, baseline := range e.config.Security.BaselineRoles {
			if role == baseline {
				return true
			}
		}
	}
	return false
}

// sessionRef is an opaque token reference for audit correlation. Raw
// tokens are never written to audit events or logs.
func sessionRef(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}
