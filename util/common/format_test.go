package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@example.com", NormalizeEmail("  Admin@Example.COM "))
	assert.Equal(t, "a.moskalev", NormalizeEmail("A.Moskalev"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"":                       "",
		"   ":                    "",
		"vault.example.com":      "https://vault.example.com",
		" vault.example.com/x ":  "https://vault.example.com/x",
		"http://plain.example":   "http://plain.example",
		"https://secure.example": "https://secure.example",
		"HTTPS://UPPER.example":  "HTTPS://UPPER.example",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeURL(in), "input %q", in)
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512.00B", FormatBytes(512))
	assert.Equal(t, "1.50KB", FormatBytes(1536))
	assert.Equal(t, "2.00GB", FormatBytes(2<<30))
}

func TestCombineFormat(t *testing.T) {
	assert.NoError(t, Combine(nil, nil))
	a := errors.New("a")
	assert.ErrorIs(t, Combine(nil, a), a)
}
