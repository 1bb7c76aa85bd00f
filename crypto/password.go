package crypto

import "golang.org/x/crypto/bcrypt"

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent.
// It returns false on any mismatch, including an empty or malformed hash, so callers
// cannot distinguish "no such hash" from "wrong password".
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateHash creates a bcrypt hash from a password with the given cost.
// Costs below bcrypt.MinCost fall back to bcrypt.DefaultCost.
func GenerateHash(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hashedBytes), err
}
