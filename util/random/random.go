// Package random provides cryptographically secure tokens.
package random

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// TokenBytes is the entropy of a session token.
const TokenBytes = 32

// Token returns n random bytes encoded as URL-safe base64.
func Token(n int) (string, error) {
	return tokenFrom(rand.Reader, n)
}

func tokenFrom(r io.Reader, n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
