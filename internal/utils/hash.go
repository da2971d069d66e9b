// Package utils provides general-purpose helper utilities
// used across different parts of the application: HTTP response writing,
// HTTP client initialization, request fingerprints and id generation.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// hasherPool holds reusable SHA-256 instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// Fingerprint computes a SHA-256 digest over parts and returns it
// hex-encoded. Parts are separated by a zero byte, so ("ab", "c") and
// ("a", "bc") never collide.
//
// Example usage:
//
//	key := utils.Fingerprint([]byte(r.Method), []byte(r.URL.Path), body)
func Fingerprint(parts ...[]byte) string {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write(p)
	}
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return hex.EncodeToString(sum)
}
