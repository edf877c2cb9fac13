// file: internal/metrics/metrics_test.go
// version: 1.0.0
// guid: 0e1f2a3b-4c5d-6e7f-8a9b-0c1d2e3f4a5b

package metrics

import (
	"testing"
	"time"
)

func TestRegisterIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestCacheCounters(t *testing.T) {
	IncCacheHit()
	IncCacheMiss()
}

func TestUpstreamFetchHelpers(t *testing.T) {
	IncUpstreamFetchSucceeded()
	IncUpstreamFetchFailed()
	ObserveUpstreamFetchDuration(120 * time.Millisecond)
}

func TestDetailLookupHelpers(t *testing.T) {
	IncDetailLookupFound()
	IncDetailLookupNotFound()
}
