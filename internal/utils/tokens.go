package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// NewResetSecret returns an opaque reset secret (32 random bytes, hex) and the
// digest that gets persisted instead of it. The raw secret only ever travels in
// the outbound email and in the caller's confirmation request.
func NewResetSecret() (secret string, digest string, err error) {
	b := make([]byte, 32) // 256 бит
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(b)
	return secret, DigestResetSecret(secret), nil
}

// DigestResetSecret is deterministic: the same secret always maps to the same
// digest, so verification recomputes the digest instead of storing the secret.
func DigestResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// SecureCompareDigests compares two digests in constant time.
func SecureCompareDigests(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// BuildResetLink appends the secret as a query parameter to the confirmation
// page URL. baseURL is taken as-is; the caller owns its validity.
func BuildResetLink(baseURL, secret string) string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%stoken=%s", baseURL, sep, secret)
}
