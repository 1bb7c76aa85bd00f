package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

// AlphanumericAlphabet is the character set for general purpose random strings
// like signing secrets.
const AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomToken creates a cryptographically secure random token of byteLength
// random bytes, hex encoded. Used for password reset tokens, where only the
// SHA-256 digest is ever persisted.
func RandomToken(byteLength int) (string, error) {
	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RandomOtp creates a cryptographically secure numeric one-time code,
// zero-padded to digits length. Used for email verification codes.
func RandomOtp(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	s := n.String()
	if pad := digits - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s, nil
}

// RandomString creates a random string of the given length from the alphabet.
// Modulo bias is avoided by drawing each index with rand.Int.
func RandomString(length int, alphabet string) string {
	max := big.NewInt(int64(len(alphabet)))
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return ""
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String()
}
