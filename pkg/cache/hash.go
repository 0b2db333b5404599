package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key builds a key for an artifact of the given kind rendered from source.
func Key(kind string, source []byte) string {
	return kind + ":" + Hash(source)
}
