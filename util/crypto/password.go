// Package crypto provides password digests and the reversible profile field
// obfuscation used by the panel.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// Scrypt parameters. N is the work factor and must be a power of two.
type Scrypt struct {
	N       int
	R       int
	P       int
	SaltLen int
	KeyLen  int
}

// DefaultScrypt returns N=2^14, r=8, p=1 with a 16 byte salt and a 32 byte key.
// Digests produced with these parameters are base64(salt || key).
func DefaultScrypt() Scrypt {
	return Scrypt{N: 1 << 14, R: 8, P: 1, SaltLen: 16, KeyLen: 32}
}

// Hash derives a digest for password using a fresh random salt.
func (s Scrypt) Hash(password string) (string, error) {
	salt := make([]byte, s.SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key, err := scrypt.Key([]byte(password), salt, s.N, s.R, s.P, s.KeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	out := make([]byte, 0, len(salt)+len(key))
	out = append(out, salt...)
	out = append(out, key...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Verify reports whether password matches digest. Malformed digests are a
// mismatch, never an error.
func (s Scrypt) Verify(password, digest string) bool {
	raw, err := base64.StdEncoding.DecodeString(digest)
	if err != nil || len(raw) != s.SaltLen+s.KeyLen {
		return false
	}
	salt, stored := raw[:s.SaltLen], raw[s.SaltLen:]
	key, err := scrypt.Key([]byte(password), salt, s.N, s.R, s.P, s.KeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, stored) == 1
}

var defaultHasher = DefaultScrypt()

// HashPassword hashes with the default parameters.
func HashPassword(password string) (string, error) {
	return defaultHasher.Hash(password)
}

// CheckPasswordHash verifies with the default parameters.
func CheckPasswordHash(digest, password string) bool {
	return defaultHasher.Verify(password, digest)
}
