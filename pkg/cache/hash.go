package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashKey maps an arbitrary key onto a fixed-length hex digest so it is
// safe to use as a file name regardless of what the caller put in it.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
