// Package cache stores extracted outlines keyed by a hash of their source
// document, so re-uploading the same PDF skips the extraction call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means the store's default.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// OutlineKey is the cache key of the outline extracted from content.
func OutlineKey(scope, kind string, content []byte) string {
	if scope == "" {
		scope = "default"
	}
	return "outline:" + scope + ":" + kind + ":" + Hash(content)
}
