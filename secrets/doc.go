// Package secrets implements the cryptographic core: PBKDF2 password
// hashing and verification, AES-256-GCM encryption of strings and byte
// payloads, and secure session-token generation.
//
// All operations are stateless per call. An [Engine] is safe for
// concurrent use after construction.
//
// # Storage formats
//
// Password hash records are base64(salt ‖ derivedKey). The record carries
// no derivation parameters; verification re-derives with the engine's
// configured iteration count, so changing Iterations invalidates existing
// records.
//
// Encrypted payloads are version ‖ salt(32) ‖ nonce(12) ‖ ciphertext+tag.
// The leading version byte allows the format to evolve without breaking
// stored data.
package secrets
