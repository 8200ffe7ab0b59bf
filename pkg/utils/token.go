package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

const shareTokenBytes = 16

// GenerateShareToken returns 32 hex characters from crypto/rand.
func GenerateShareToken() (string, error) {
	b := make([]byte, shareTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// TokensEqual compares two tokens in constant time. Empty never matches.
func TokensEqual(presented, stored string) bool {
	if presented == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}
