package trustcore

import (
	"context"
	"testing"
)

func TestStaticProviderUnknownUserBurnsDerivation(t *testing.T) {
	engine := newTestSecrets(t)
	provider := NewStaticProvider(engine)

	if provider.decoy == "" {
		t.Fatal("decoy record must be populated at construction")
	}
	if !engine.VerifyPassword("static-provider-decoy", provider.decoy) {
		t.Fatal("decoy must be a well-formed record so the unknown-user path runs a full derivation")
	}

	identity, err := provider.Authenticate(context.Background(), "nobody", "whatever")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if identity.Valid {
		t.Fatal("unknown user must not authenticate")
	}
}

func TestStaticProviderWrongPasswordAndUnknownUserIndistinguishable(t *testing.T) {
	provider := NewStaticProvider(newTestSecrets(t))
	if err := provider.AddUser("alice", "correct-password-123", nil); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	ctx := context.Background()

	known, err := provider.Authenticate(ctx, "alice", "wrong-password")
	if err != nil {
		t.Fatalf("Authenticate known: %v", err)
	}
	unknown, err := provider.Authenticate(ctx, "nobody", "wrong-password")
	if err != nil {
		t.Fatalf("Authenticate unknown: %v", err)
	}

	if known != unknown {
		t.Fatalf("rejections differ: known=%+v unknown=%+v", known, unknown)
	}
}
