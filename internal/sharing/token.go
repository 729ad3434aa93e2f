package sharing

import (
	"crypto/rand"
	"encoding/base64"
)

const tokenBytes = 32

// TokenLength is the length of an encoded sharing token.
var TokenLength = base64.RawURLEncoding.EncodedLen(tokenBytes)

// GenerateToken returns 256 random bits, base64url-encoded without padding.
// The token carries no metadata; everything about a link lives in the store.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// WellFormedToken reports whether token could have come from GenerateToken.
func WellFormedToken(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	b, err := base64.RawURLEncoding.Strict().DecodeString(token)
	return err == nil && len(b) == tokenBytes
}
