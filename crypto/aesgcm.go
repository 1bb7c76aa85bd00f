package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Encrypted secrets at rest use AES-256-GCM with a key derived by hashing the
// configured key material. Wire format: <ivHex>.<authTagHex>.<ciphertextHex>,
// three dot-separated hex strings.

const gcmNonceLength = 12

var (
	// ErrEmptyEncryptionKey is returned when no key material is configured.
	ErrEmptyEncryptionKey = errors.New("empty encryption key")
	// ErrInvalidPayload is returned when an encrypted payload does not have
	// exactly three dot-separated hex parts.
	ErrInvalidPayload = errors.New("invalid encrypted payload")
	// ErrDecryptionFailed is returned when authentication of the ciphertext
	// fails. Callers must treat this as "cannot verify", not crash.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// deriveKey stretches arbitrary key material to the 32 bytes AES-256 needs.
func deriveKey(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}

// EncryptSecret encrypts a plaintext secret for storage at rest.
func EncryptSecret(plaintext, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyEncryptionKey
	}

	block, err := aes.NewCipher(deriveKey(key))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, gcmNonceLength)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	iv := make([]byte, gcmNonceLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends the auth tag to the ciphertext. The wire format keeps the
	// tag as its own part, so split it off the end.
	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	tagStart := len(sealed) - gcm.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	return hex.EncodeToString(iv) + "." + hex.EncodeToString(tag) + "." + hex.EncodeToString(ciphertext), nil
}

// DecryptSecret is the inverse of EncryptSecret. A malformed payload returns
// ErrInvalidPayload; a tampered payload or wrong key returns
// ErrDecryptionFailed.
func DecryptSecret(payload, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyEncryptionKey
	}

	parts := strings.Split(payload, ".")
	if len(parts) != 3 {
		return "", ErrInvalidPayload
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidPayload
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidPayload
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidPayload
	}
	if len(iv) != gcmNonceLength {
		return "", ErrInvalidPayload
	}

	block, err := aes.NewCipher(deriveKey(key))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, gcmNonceLength)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}
	if len(tag) != gcm.Overhead() {
		return "", ErrInvalidPayload
	}

	plaintext, err := gcm.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
