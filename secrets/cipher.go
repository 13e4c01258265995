package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"
)

const (
	payloadVersionGCM byte = 1

	gcmNonceSize = 12
)

// EncryptBytes encrypts an arbitrary byte payload under a key derived from
// password and a freshly generated salt. The output layout is
// version ‖ salt ‖ nonce ‖ ciphertext+tag; salt and nonce are never reused
// across calls.
func (e *Engine) EncryptBytes(plaintext []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrInvalidArgument
	}

	salt := make([]byte, e.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	aead, err := e.newAEAD(password, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+len(salt)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, payloadVersionGCM)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)

	return out, nil
}

// DecryptBytes reverses [Engine.EncryptBytes]. Any failure, whether a wrong
// password, a truncated payload, or a tampered ciphertext, surfaces as
// [ErrDecryptionFailed] with no further detail.
func (e *Engine) DecryptBytes(payload []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrInvalidArgument
	}

	headerSize := 1 + e.config.SaltLength + gcmNonceSize
	if len(payload) < headerSize {
		return nil, ErrDecryptionFailed
	}
	if payload[0] != payloadVersionGCM {
		return nil, ErrDecryptionFailed
	}

	salt := payload[1 : 1+e.config.SaltLength]
	nonce := payload[1+e.config.SaltLength : headerSize]
	ciphertext := payload[headerSize:]

	aead, err := e.newAEAD(password, salt)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// EncryptString encrypts a UTF-8 string and returns the payload
// base64-encoded for text transport.
func (e *Engine) EncryptString(plaintext, password string) (string, error) {
	out, err := e.EncryptBytes([]byte(plaintext), password)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptString reverses [Engine.EncryptString].
func (e *Engine) DecryptString(encoded, password string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	plaintext, err := e.DecryptBytes(payload, password)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (e *Engine) newAEAD(password string, salt []byte) (cipher.AEAD, error) {
	key := e.deriveKey([]byte(password), salt)

	block, err := aes.NewCipher(key[:minKeyLength])
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
