package secrets

import (
	"encoding/base64"
	"testing"
)

func TestNewTokenEntropy(t *testing.T) {
	token, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not base64url: %v", err)
	}
	if len(raw) != tokenRawSize {
		t.Fatalf("expected %d bytes of entropy, got %d", tokenRawSize, len(raw))
	}
}

func TestNewTokenNoDuplicates(t *testing.T) {
	const n = 100000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		token, err := NewToken()
		if err != nil {
			t.Fatalf("NewToken error: %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token after %d generations", i)
		}
		seen[token] = struct{}{}
	}
}
