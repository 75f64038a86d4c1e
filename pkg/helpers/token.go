package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// ResetTokenBytes is the entropy of a password reset token.
const ResetTokenBytes = 32

// NewResetToken returns a hex encoded random token and the digest to store.
func NewResetToken() (token, digest string, err error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(b)
	return token, Digest(token), nil
}

// Digest is the hex SHA-256 of s. Used for reset tokens and blacklisted sessions
// so raw secrets are never stored.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
