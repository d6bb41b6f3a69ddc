package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// Entropy sizes, in bytes, for opaque credentials.
const (
	// TokenSize128 is enough for values that only live a few minutes.
	TokenSize128 = 16
	// TokenSize256 is used for access tokens, refresh tokens, authorization
	// codes and client secrets.
	TokenSize256 = 32
)

// GenerateToken returns size random bytes from crypto/rand encoded as
// unpadded base64url.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken is the lookup key stored in place of an opaque token.
// It is the base64url SHA-256 of the value (43 chars).
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Equal compares two secrets without leaking where they differ.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
