// file: internal/kvstore/store.go
// version: 1.0.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f0a

// Package kvstore provides the key-value store the read-through cache sits
// on: get/set with expiry, addressed by string keys, values as opaque bytes.
// Backends are interchangeable so request handlers can be tested against the
// in-memory implementation while deployments share a Redis instance.
package kvstore

import (
	"context"
	"time"
)

// Store is the injected caching capability.
type Store interface {
	// Get retrieves a value by key. The boolean indicates a live entry;
	// expired entries are reported as absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key with the given TTL, replacing any
	// previous entry wholesale. A zero TTL means no automatic expiration.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}
