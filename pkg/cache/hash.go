package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashKey builds "<kind>:<sha256>" over the newline-joined parts. Revisions
// and formatted windows never contain newlines, so distinct part lists
// cannot collide.
func hashKey(kind string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return kind + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 of data. Document revisions and page
// identities are derived from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
