package internaldefs

import (
	trustcore "github.com/opsfort/trustcore"
)

// CounterDef defines a public type used by trustcore APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   trustcore.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by trustcore APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   trustcore.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the trust engine.
var CounterDefs = []CounterDef{
	{ID: trustcore.MetricLoginSuccess, Name: "trustcore_login_success_total", Help: "Successful login attempts."},
	{ID: trustcore.MetricLoginFailure, Name: "trustcore_login_failure_total", Help: "Failed login attempts."},
	{ID: trustcore.MetricLoginDenied, Name: "trustcore_login_denied_total", Help: "Logins denied for missing baseline role."},
	{ID: trustcore.MetricLoginServiceError, Name: "trustcore_login_service_error_total", Help: "Logins aborted by identity backend errors."},
	{ID: trustcore.MetricSessionCreated, Name: "trustcore_session_created_total", Help: "Created sessions."},
	{ID: trustcore.MetricSessionValidated, Name: "trustcore_session_validated_total", Help: "Successful session validations."},
	{ID: trustcore.MetricSessionRejected, Name: "trustcore_session_rejected_total", Help: "Session validations that failed or expired."},
	{ID: trustcore.MetricLogout, Name: "trustcore_logout_total", Help: "Single-session logout operations."},
	{ID: trustcore.MetricLogoutAll, Name: "trustcore_logout_all_total", Help: "Logout-all operations."},
	{ID: trustcore.MetricPermissionGranted, Name: "trustcore_permission_granted_total", Help: "Permission checks that granted access."},
	{ID: trustcore.MetricPermissionDenied, Name: "trustcore_permission_denied_total", Help: "Permission checks that denied access."},
}

// HistogramDefs is an exported constant or variable used by the trust engine.
var HistogramDefs = []HistogramDef{
	{ID: trustcore.MetricValidateLatency, Name: "trustcore_validate_latency_seconds", Help: "Session validation latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the trust engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the trust engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
