package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken hashes a token string so cache keys stay short regardless of
// how large the signed JWT grows.
func HashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}
