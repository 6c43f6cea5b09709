package services

import (
	"crypto/rand"
	"encoding/hex"
)

// newActivationToken returns a 32-character hex token from a CSPRNG.
func newActivationToken() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}
