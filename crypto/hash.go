package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the hex-encoded SHA-256 digest of a bearer token.
// The store only ever holds the digest, so a store compromise does not yield
// the usable plaintext of already-issued reset tokens or OTPs.
func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
