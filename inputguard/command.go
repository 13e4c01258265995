package inputguard

import (
	"errors"
	"fmt"
	"strings"
)

// allowedCommands is the full set of OS diagnostic binaries the toolkit may
// ever invoke. The check is fail-closed: absence means rejection.
var allowedCommands = map[string]struct{}{
	"ping":       {},
	"tracert":    {},
	"traceroute": {},
	"nslookup":   {},
	"netstat":    {},
	"ipconfig":   {},
	"arp":        {},
	"route":      {},
	"systeminfo": {},
	"whoami":     {},
	"hostname":   {},
}

// ErrCommandNotAllowed is returned by [CheckCommand] for a binary outside
// the allowlist.
var ErrCommandNotAllowed = errors.New("command not allowed")

// ErrCommandArgumentRejected is returned by [CheckCommand] when an argument
// fails validation.
var ErrCommandArgumentRejected = errors.New("command argument rejected")

// IsAllowedCommand reports whether name is an allowlisted diagnostic binary.
// Matching is case-insensitive and ignores surrounding whitespace.
func IsAllowedCommand(name string) bool {
	_, ok := allowedCommands[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// CheckCommand gates a full OS invocation: the binary must be allowlisted
// and every argument must pass [Validate] as general text. It returns nil
// only when the entire invocation is safe to pass to the OS.
func CheckCommand(name string, args []string) error {
	if !IsAllowedCommand(name) {
		return fmt.Errorf("%w: %q", ErrCommandNotAllowed, name)
	}

	for i, arg := range args {
		if result := Validate(arg, KindGeneral); !result.IsValid() {
			return fmt.Errorf("%w: argument %d: %s", ErrCommandArgumentRejected, i, result.Errors[0])
		}
	}

	return nil
}
