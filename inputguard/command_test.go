package inputguard

import (
	"errors"
	"testing"
)

func TestIsAllowedCommand(t *testing.T) {
	if !IsAllowedCommand("ping") {
		t.Fatal(`expected "ping" to be allowed`)
	}
	if IsAllowedCommand("format") {
		t.Fatal(`expected "format" to be rejected`)
	}
}

func TestIsAllowedCommandFullAllowlist(t *testing.T) {
	allowed := []string{
		"ping", "tracert", "traceroute", "nslookup", "netstat",
		"ipconfig", "arp", "route", "systeminfo", "whoami", "hostname",
	}
	for _, name := range allowed {
		if !IsAllowedCommand(name) {
			t.Fatalf("expected %q to be allowed", name)
		}
	}
}

func TestIsAllowedCommandNormalization(t *testing.T) {
	if !IsAllowedCommand("  PING  ") {
		t.Fatal("expected case and whitespace to be normalized")
	}
}

func TestIsAllowedCommandFailClosed(t *testing.T) {
	denied := []string{"", "rm", "del", "powershell", "cmd", "bash", "ping.exe"}
	for _, name := range denied {
		if IsAllowedCommand(name) {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestCheckCommand(t *testing.T) {
	if err := CheckCommand("ping", []string{"-c", "4", "203.0.113.9"}); err != nil {
		t.Fatalf("expected clean invocation to pass: %v", err)
	}

	err := CheckCommand("format", []string{"C:"})
	if !errors.Is(err, ErrCommandNotAllowed) {
		t.Fatalf("expected ErrCommandNotAllowed, got %v", err)
	}

	err = CheckCommand("ping", []string{"127.0.0.1; rm -rf /"})
	if !errors.Is(err, ErrCommandArgumentRejected) {
		t.Fatalf("expected ErrCommandArgumentRejected, got %v", err)
	}
}
