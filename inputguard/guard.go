package inputguard

import (
	"fmt"
	"html"
	"strings"
)

// Kind selects the structural rules applied by [Validate].
type Kind int

const (
	// KindGeneral is free-form text, max 1000 characters.
	KindGeneral Kind = iota
	// KindUsername is an account identifier, max 50 characters,
	// alphanumerics plus "._-".
	KindUsername
	// KindHostname is an RFC-952-style hostname, max 255 characters.
	KindHostname
	// KindIPAddress is an IPv4 or IPv6 literal, max 45 characters.
	KindIPAddress
)

func (k Kind) String() string {
	switch k {
	case KindUsername:
		return "username"
	case KindHostname:
		return "hostname"
	case KindIPAddress:
		return "ip_address"
	default:
		return "general"
	}
}

func maxLength(k Kind) int {
	switch k {
	case KindUsername:
		return 50
	case KindHostname:
		return 255
	case KindIPAddress:
		return 45
	default:
		return 1000
	}
}

// Result is the outcome of a validation call. Sanitized is always populated,
// even when the input is rejected.
type Result struct {
	Errors    []string
	Sanitized string
}

// IsValid reports whether the input passed every check.
func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Validate applies the length limit, the kind-specific structural pattern,
// and the universal SQL and script-injection filters to input.
func Validate(input string, kind Kind) Result {
	result := Result{Sanitized: Sanitize(input)}

	if input == "" {
		result.Errors = append(result.Errors, "value is required")
		return result
	}
	if len(input) > maxLength(kind) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("value exceeds maximum length of %d for %s", maxLength(kind), kind))
	}

	switch kind {
	case KindUsername:
		if !usernamePattern.MatchString(input) {
			result.Errors = append(result.Errors,
				"username may contain only letters, digits, '.', '_', and '-'")
		}
	case KindHostname:
		if !IsValidHostname(input) {
			result.Errors = append(result.Errors, "value is not a valid hostname")
		}
	case KindIPAddress:
		if !IsValidIPAddress(input) {
			result.Errors = append(result.Errors, "value is not a valid IP address")
		}
	}

	for _, p := range sqlPatterns {
		if p.re.MatchString(input) {
			result.Errors = append(result.Errors, "input matches SQL injection pattern: "+p.name)
		}
	}
	for _, p := range scriptPatterns {
		if p.re.MatchString(input) {
			result.Errors = append(result.Errors, "input matches script injection pattern: "+p.name)
		}
	}

	return result
}

// Sanitize HTML-entity-encodes the input, strips the characters <>"'& from
// the encoded form, and trims surrounding whitespace. The output is safe to
// echo into logs and markup but is NOT a substitute for validation.
func Sanitize(input string) string {
	encoded := html.EscapeString(input)

	var b strings.Builder
	b.Grow(len(encoded))
	for _, r := range encoded {
		switch r {
		case '<', '>', '"', '\'', '&':
			continue
		default:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}
