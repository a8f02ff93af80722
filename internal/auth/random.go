package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenEntropyBytes gives 256 bits of entropy per code/token value
const tokenEntropyBytes = 32

// NewRandomValue returns a URL-safe, cryptographically random string used
// for authorization codes, access tokens and refresh tokens.
func NewRandomValue() (string, error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
