// file: internal/users/service.go
// version: 1.2.0
// guid: 0a1b2c3d-4e5f-6a7b-8c9d-0e1f2a3b4c5d

package users

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/inpsyde/users-table/internal/kvstore"
	"github.com/inpsyde/users-table/internal/metrics"
)

// DefaultCacheKey is the well-known slot the user snapshot lives under.
const DefaultCacheKey = "users_table:all"

// DefaultCacheTTL bounds staleness of the snapshot. The upstream data set is
// effectively static, so the long window wins over freshness.
const DefaultCacheTTL = 12 * time.Hour

// Fetcher is the upstream dependency of the Service. Client satisfies it;
// tests substitute a stub.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]User, error)
}

// Service is a read-through cache over the upstream user directory. It holds
// a single snapshot of the full collection under one key in the injected
// store and refreshes it at most once per TTL window.
//
// There is deliberately no lock around the miss path: two concurrent misses
// may both fetch and both write. The writes are idempotent (same upstream,
// near-identical content), so last-write-wins is harmless.
type Service struct {
	fetcher Fetcher
	store   kvstore.Store
	key     string
	ttl     time.Duration
}

// NewService creates a Service over the given fetcher and store. Zero values
// for key and ttl fall back to the package defaults.
func NewService(fetcher Fetcher, store kvstore.Store, key string, ttl time.Duration) *Service {
	if key == "" {
		key = DefaultCacheKey
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		key:     key,
		ttl:     ttl,
	}
}

// GetAll returns the current user collection, in upstream order. A live
// cached snapshot is served without touching the upstream; otherwise the
// upstream is fetched and, on success, cached for the TTL window. Every
// failure mode degrades to an empty collection so the list page renders an
// empty table instead of an error.
func (s *Service) GetAll(ctx context.Context) []User {
	if raw, ok, err := s.store.Get(ctx, s.key); err == nil && ok {
		var cached []User
		if err := json.Unmarshal(raw, &cached); err == nil {
			metrics.IncCacheHit()
			return cached
		}
		// An undecodable entry means some other writer corrupted the slot.
		// Fall through and refetch; the next successful write replaces it.
		log.Printf("[WARN] discarding corrupt cache entry under %q", s.key)
	}
	metrics.IncCacheMiss()

	start := time.Now()
	collection, err := s.fetcher.FetchAll(ctx)
	metrics.ObserveUpstreamFetchDuration(time.Since(start))
	if err != nil {
		metrics.IncUpstreamFetchFailed()
		log.Printf("[WARN] upstream fetch failed, serving empty collection: %v", err)
		return []User{}
	}
	metrics.IncUpstreamFetchSucceeded()

	raw, err := json.Marshal(collection)
	if err != nil {
		log.Printf("[WARN] failed to encode user collection for cache: %v", err)
		return collection
	}
	if err := s.store.Set(ctx, s.key, raw, s.ttl); err != nil {
		log.Printf("[WARN] failed to write user collection to cache: %v", err)
	}

	return collection
}

// FindByID returns the first user whose ID matches, reading through the
// cache. Non-positive ids and unmatched ids report not found.
func (s *Service) FindByID(ctx context.Context, id int) (User, bool) {
	if id <= 0 {
		metrics.IncDetailLookupNotFound()
		return User{}, false
	}
	for _, u := range s.GetAll(ctx) {
		if u.ID == id {
			metrics.IncDetailLookupFound()
			return u, true
		}
	}
	metrics.IncDetailLookupNotFound()
	return User{}, false
}
