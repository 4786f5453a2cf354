// Package auth implements the bearer-token credential scheme: SHA-256
// password digests, opaque URL-safe session tokens, and credential
// extraction from requests.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
)

// HashPassword returns the hex SHA-256 digest of the plaintext password.
//
// The scheme is unsalted and unstretched for compatibility with the digests
// already stored for existing users; swap here if the scheme is ever
// migrated.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the plaintext matches the stored digest.
func VerifyPassword(password, digest string) bool {
	return HashPassword(password) == digest
}

// NewToken generates an opaque session token with 32 bytes of entropy,
// URL-safe base64 encoded.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// BearerToken extracts the session token from a request. The Authorization
// header takes precedence over the "token" query parameter; an optional
// "Bearer " prefix is stripped. Returns "" when no credential is supplied.
func BearerToken(r *http.Request) string {
	cred := r.Header.Get("Authorization")
	if cred == "" {
		cred = r.URL.Query().Get("token")
	}
	return strings.TrimPrefix(cred, "Bearer ")
}
