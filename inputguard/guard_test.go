package inputguard

import (
	"strings"
	"testing"
)

func TestValidateSQLInjectionRejected(t *testing.T) {
	result := Validate("admin'; DROP TABLE users;--", KindGeneral)

	if result.IsValid() {
		t.Fatal("expected SQL injection input to be rejected")
	}

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "SQL injection") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a SQL-pattern error, got %v", result.Errors)
	}
}

func TestValidateScriptInjectionRejected(t *testing.T) {
	result := Validate("<script>alert(1)</script>", KindGeneral)

	if result.IsValid() {
		t.Fatal("expected script injection input to be rejected")
	}

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "script injection") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a script-pattern error, got %v", result.Errors)
	}

	if strings.ContainsAny(result.Sanitized, "<>") {
		t.Fatalf("sanitized value still contains angle brackets: %q", result.Sanitized)
	}
}

func TestValidateEmptyInput(t *testing.T) {
	result := Validate("", KindUsername)
	if result.IsValid() {
		t.Fatal("expected empty input to be rejected")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error for empty input, got %v", result.Errors)
	}
}

func TestValidateLengthLimits(t *testing.T) {
	cases := []struct {
		kind Kind
		max  int
	}{
		{KindUsername, 50},
		{KindHostname, 255},
		{KindIPAddress, 45},
		{KindGeneral, 1000},
	}

	for _, tc := range cases {
		oversized := strings.Repeat("a", tc.max+1)
		if Validate(oversized, tc.kind).IsValid() {
			t.Fatalf("expected %v input of %d chars to be rejected", tc.kind, tc.max+1)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	if !Validate("tech.user_01-a", KindUsername).IsValid() {
		t.Fatal("expected well-formed username to pass")
	}
	if Validate("user name", KindUsername).IsValid() {
		t.Fatal("expected username with space to be rejected")
	}
	if Validate("user@corp", KindUsername).IsValid() {
		t.Fatal("expected username with '@' to be rejected")
	}
}

func TestValidateHostnameKind(t *testing.T) {
	if !Validate("core-sw01.corp.example.com", KindHostname).IsValid() {
		t.Fatal("expected valid hostname to pass")
	}
	if Validate("-leading.example.com", KindHostname).IsValid() {
		t.Fatal("expected hostname with leading hyphen label to be rejected")
	}
}

func TestValidateIPAddressKind(t *testing.T) {
	if !Validate("203.0.113.9", KindIPAddress).IsValid() {
		t.Fatal("expected valid IPv4 literal to pass")
	}
	if !Validate("2001:db8::1", KindIPAddress).IsValid() {
		t.Fatal("expected valid IPv6 literal to pass")
	}
	if Validate("256.1.1.1", KindIPAddress).IsValid() {
		t.Fatal("expected out-of-range IPv4 literal to be rejected")
	}
}

func TestSanitizeStripsDangerousCharacters(t *testing.T) {
	out := Sanitize(`  <img src="x" onerror='alert(1)'>  `)

	if strings.ContainsAny(out, `<>"'&`) {
		t.Fatalf("sanitized output still contains dangerous characters: %q", out)
	}
	if strings.HasPrefix(out, " ") || strings.HasSuffix(out, " ") {
		t.Fatalf("sanitized output not trimmed: %q", out)
	}
}

func TestSanitizedValueAlwaysPresent(t *testing.T) {
	result := Validate("<script>bad</script>", KindGeneral)
	if result.Sanitized == "" {
		t.Fatal("expected sanitized value even for invalid input")
	}
}
