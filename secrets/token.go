package secrets

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenRawSize is 32 bytes: 256 bits of entropy per token.
const tokenRawSize = 32

// NewToken returns a fresh opaque session token: 256 bits from the system
// CSPRNG, base64url-encoded without padding. An RNG failure is returned to
// the caller and must not be retried.
func NewToken() (string, error) {
	var raw [tokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// NewToken returns a fresh token. The method form exists so an [Engine] can
// be injected wherever a token source is required.
func (e *Engine) NewToken() (string, error) {
	return NewToken()
}
