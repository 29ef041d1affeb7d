// Package checksum derives content digests used for change detection and
// HTTP cache validators.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag returns a strong entity tag over parts. Parts are joined with a NUL
// byte so ("ab", "c") and ("a", "bc") differ.
func ETag(parts ...string) string {
	sum := Sum([]byte(strings.Join(parts, "\x00")))
	return `"` + sum[:32] + `"`
}
