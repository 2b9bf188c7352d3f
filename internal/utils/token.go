package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSessionToken returns an unguessable opaque bearer token: 32 bytes
// of cryptographically secure randomness, hex encoded (64 characters).
// The token carries no structure; it is only meaningful as a key into
// the server-side session table.
func NewSessionToken() (string, error) {
	return randomHex(32)
}

// randomHex returns a hex-encoded string generated from n bytes of
// secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
