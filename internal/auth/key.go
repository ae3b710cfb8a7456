package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Signing key length bounds, in bytes.
const (
	DefaultKeyLength = 64
	MinKeyLength     = 32
	MaxKeyLength     = 128
)

// GenerateKey returns length cryptographically random bytes, base64 encoded.
func GenerateKey(length int) (string, error) {
	if length < MinKeyLength || length > MaxKeyLength {
		return "", fmt.Errorf("key length must be between %d and %d bytes", MinKeyLength, MaxKeyLength)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
