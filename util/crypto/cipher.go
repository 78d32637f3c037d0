package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"unicode/utf8"
)

// ErrMalformedCiphertext is returned by Open for input Encrypt could not
// have produced.
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// FieldCipher obfuscates optional profile fields at rest by XOR-ing them with
// a repeating SHA-256 keystream of the process secret.
//
// This is NOT encryption in any meaningful sense: there is no nonce and no
// authentication, equal plaintexts give equal ciphertexts, and known plaintext
// reveals the keystream. It only keeps values from being readable in a raw
// dump. An AEAD implementation can replace it behind the same Encrypt/Decrypt
// pair. Rotating the secret makes every stored field unreadable.
type FieldCipher struct {
	key [sha256.Size]byte
}

// NewFieldCipher derives the keystream from secret.
func NewFieldCipher(secret string) *FieldCipher {
	return &FieldCipher{key: sha256.Sum256([]byte(secret))}
}

func (f *FieldCipher) xor(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ f.key[i%len(f.key)]
	}
	return out
}

// Encrypt returns plaintext XOR-ed with the keystream, base64 encoded.
func (f *FieldCipher) Encrypt(plaintext string) string {
	return base64.StdEncoding.EncodeToString(f.xor([]byte(plaintext)))
}

// Open reverses Encrypt and reports decoding failures.
func (f *FieldCipher) Open(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	plain := f.xor(data)
	if !utf8.Valid(plain) {
		return "", ErrMalformedCiphertext
	}
	return string(plain), nil
}

// Decrypt reverses Encrypt. Any failure yields "", which callers cannot tell
// apart from an empty original; use Open when the difference matters.
func (f *FieldCipher) Decrypt(ciphertext string) string {
	plain, err := f.Open(ciphertext)
	if err != nil {
		return ""
	}
	return plain
}

// Seal encrypts a non-empty value; empty input is stored as absent.
func (f *FieldCipher) Seal(plaintext string) *string {
	if plaintext == "" {
		return nil
	}
	ct := f.Encrypt(plaintext)
	return &ct
}
