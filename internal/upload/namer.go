package upload

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// NewKey derives a collision-resistant storage key from the original
// filename: a random UUID plus the original extension taken verbatim.
// Collision safety comes from 128 bits of randomness, not from checking
// existing keys.
func NewKey(originalFilename string) string {
	return uuid.NewString() + path.Ext(originalFilename)
}

// IDFromKey extracts the short id from a storage key: the portion before
// the first dot. The short id is the object's sole external handle.
func IDFromKey(key string) string {
	if i := strings.IndexByte(key, '.'); i >= 0 {
		return key[:i]
	}
	return key
}
