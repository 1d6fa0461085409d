// Package cryptox implements the password digests stored in the user
// document.
//
// Two schemes exist. SchemeSHA256 is the unsalted lowercase-hex SHA-256 that
// every existing document uses; it is deterministic, so equal passwords give
// equal digests. SchemeArgon2id is an opt-in salted scheme stored as
// "argon2id$<salt-hex>$<key-hex>". VerifyPassword accepts both, so switching
// the scheme never locks out existing accounts.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type Scheme string

const (
	SchemeSHA256   Scheme = "sha256"
	SchemeArgon2id Scheme = "argon2id"
)

const (
	argon2Prefix  = "argon2id$"
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// randRead is a test seam for crypto/rand.
var randRead = rand.Read

// ParseScheme validates a configured scheme name. Empty means SchemeSHA256.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemeSHA256:
		return SchemeSHA256, nil
	case SchemeArgon2id:
		return SchemeArgon2id, nil
	default:
		return "", fmt.Errorf("unknown password scheme %q", s)
	}
}

// HashPassword returns the hex SHA-256 digest of plaintext.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// DeriveKey stretches password with salt using Argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, argon2KeyLen)
}

// HashArgon2id returns a freshly salted Argon2id digest of plaintext.
func HashArgon2id(plaintext string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := randRead(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := DeriveKey([]byte(plaintext), salt)
	return argon2Prefix + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

// Hash produces a digest of plaintext under scheme.
func Hash(scheme Scheme, plaintext string) (string, error) {
	switch scheme {
	case SchemeArgon2id:
		return HashArgon2id(plaintext)
	case SchemeSHA256, "":
		return HashPassword(plaintext), nil
	default:
		return "", fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// VerifyPassword reports whether plaintext matches the stored digest.
// An empty stored digest never matches.
func VerifyPassword(stored, plaintext string) bool {
	if stored == "" {
		return false
	}

	if !strings.HasPrefix(stored, argon2Prefix) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(HashPassword(plaintext))) == 1
	}

	parts := strings.Split(strings.TrimPrefix(stored, argon2Prefix), "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got := DeriveKey([]byte(plaintext), salt)
	return subtle.ConstantTimeCompare(want, got) == 1
}
