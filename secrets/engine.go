package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	minIterations = 10000
	minSaltLength = 32
	minKeyLength  = 32
)

var (
	// ErrInvalidArgument is returned for empty or malformed input to a crypto call.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDecryptionFailed is returned for any decrypt failure. It deliberately
	// does not distinguish a wrong password from corrupt data.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Config holds the key-derivation parameters for an [Engine].
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

// DefaultConfig returns the production derivation parameters:
// 600,000 PBKDF2-SHA-256 iterations, 32-byte salt, 32-byte key.
func DefaultConfig() Config {
	return Config{
		Iterations: 600000,
		SaltLength: 32,
		KeyLength:  32,
	}
}

// Engine derives keys, hashes passwords, and encrypts payloads.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config Config
}

// NewEngine creates an [Engine] after validating the derivation parameters
// against the hard minimums (10,000 iterations, 32-byte salt, 32-byte key).
func NewEngine(cfg Config) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Engine{config: cfg}, nil
}

// HashPassword generates a fresh random salt, derives a key with
// PBKDF2-SHA-256, and returns base64(salt ‖ derivedKey).
func (e *Engine) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidArgument
	}

	salt := make([]byte, e.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := e.deriveKey([]byte(password), salt)

	record := make([]byte, 0, len(salt)+len(key))
	record = append(record, salt...)
	record = append(record, key...)

	return base64.StdEncoding.EncodeToString(record), nil
}

// VerifyPassword re-derives from the embedded salt and compares in constant
// time. A malformed record returns false, never an error.
func (e *Engine) VerifyPassword(password, record string) bool {
	if password == "" {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(record)
	if err != nil {
		return false
	}
	if len(raw) != e.config.SaltLength+e.config.KeyLength {
		return false
	}

	salt := raw[:e.config.SaltLength]
	stored := raw[e.config.SaltLength:]

	computed := e.deriveKey([]byte(password), salt)

	return subtle.ConstantTimeCompare(computed, stored) == 1
}

func (e *Engine) deriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, e.config.Iterations, e.config.KeyLength, sha256.New)
}

func validateConfig(cfg Config) error {
	if cfg.Iterations < minIterations {
		return errors.New("secrets iterations must be >= 10000")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("secrets salt length must be >= 32")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("secrets key length must be >= 32")
	}
	return nil
}
