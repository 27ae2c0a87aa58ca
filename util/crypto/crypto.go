// Package crypto provides the password digest and the recoverable-delete
// encoding used when an account is removed.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// PasswordDigest returns the storage form of a raw password: a lowercase hex
// sha256 digest. The digest doubles as key material for SealField, so it must
// stay deterministic and fixed-length.
func PasswordDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPasswordDigest verifies a raw password against a stored digest.
func CheckPasswordDigest(digest, password string) bool {
	return digest == PasswordDigest(password)
}

// DeriveKey reinterprets a stored hex digest as a 32-byte AES-256 key.
// A digest that is not exactly 64 hex characters is corrupt: a record in that
// state could never be decrypted again, so sealing must not proceed.
func DeriveKey(digest string) ([]byte, error) {
	key, err := hex.DecodeString(digest)
	if err != nil {
		return nil, fmt.Errorf("malformed password digest: %w", err)
	}
	if len(key) != sha256.Size {
		return nil, fmt.Errorf("malformed password digest: got %d key bytes, want %d", len(key), sha256.Size)
	}
	return key, nil
}

// SealField encrypts one field value with AES-256-GCM under the given key and
// returns hex(nonce || ciphertext). The output is self-contained: the nonce is
// carried in front, so OpenField only needs the key.
func SealField(key []byte, value string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aesgcm.Seal(nonce, nonce, []byte(value), nil)
	return hex.EncodeToString(sealed), nil
}

// OpenField reverses SealField. It exists for the recovery flow: whoever still
// knows the original raw password can re-derive the key via PasswordDigest and
// read the field back.
func OpenField(key []byte, sealed string) (string, error) {
	raw, err := hex.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("malformed sealed field: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(raw) < aesgcm.NonceSize() {
		return "", fmt.Errorf("malformed sealed field: %d bytes", len(raw))
	}
	nonce, ciphertext := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
