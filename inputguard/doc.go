// Package inputguard validates and sanitizes untrusted strings before they
// reach storage, logging, or process invocation.
//
// Validation never panics and never returns an error value; every call
// yields a [Result] whose Errors list explains each rejection. Callers must
// check [Result.IsValid] before trusting the sanitized value for a
// privileged action.
//
// The command allowlist and blocked-port set gate any feature that shells
// out to an OS diagnostic binary or probes a network target. Both are
// fail-closed: anything not explicitly listed is rejected.
package inputguard
