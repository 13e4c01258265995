package trustcore

import (
	"errors"

	"github.com/opsfort/trustcore/secrets"
)

var (
	// ErrInvalidArgument is an exported constant or variable used by the trust engine.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrValidationFailed is an exported constant or variable used by the trust engine.
	ErrValidationFailed = errors.New("input validation failed")
	// ErrInvalidCredentials is an exported constant or variable used by the trust engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccessDenied is an exported constant or variable used by the trust engine.
	ErrAccessDenied = errors.New("access denied")
	// ErrServiceUnavailable is an exported constant or variable used by the trust engine.
	ErrServiceUnavailable = errors.New("identity backend unavailable")
	// ErrSessionNotFound is an exported constant or variable used by the trust engine.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEngineNotReady is an exported constant or variable used by the trust engine.
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrDecryptionFailed is an exported constant or variable used by the trust engine.
	ErrDecryptionFailed = secrets.ErrDecryptionFailed
)
