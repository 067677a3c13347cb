package security

import (
	"crypto/hmac"
	"crypto/sha256"
)

// deriveKey binds a signing key to a purpose (and optionally to user state)
// so a token minted for one use can never verify as another
func deriveKey(secret []byte, parts ...string) []byte {
	m := hmac.New(sha256.New, secret)
	for _, p := range parts {
		m.Write([]byte(p))
		m.Write([]byte{0})
	}

	return m.Sum(nil)
}
