// ABOUTME: Opaque session token generation and constant-time comparison
// ABOUTME: Tokens carry 256 bits of crypto/rand entropy, base64url encoded

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// sessionTokenBytes is the raw entropy per token. 32 bytes = 256 bits.
const sessionTokenBytes = 32

// GenerateSessionToken returns a new opaque bearer token. The token has no
// internal structure; it only means anything while an account row holds it.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// TokensEqual compares two token strings in constant time. The store lookup
// is an indexed match; re-comparing the matched value here hardens against
// timing leaks without changing accept/reject semantics.
func TokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
