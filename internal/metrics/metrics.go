// file: internal/metrics/metrics.go
// version: 1.0.0
// guid: 9a0b1c2d-3e4f-5a6b-7c8d-9e0f1a2b3c4d

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "users_table",
		Name:      "cache_hits_total",
		Help:      "Total number of user collection reads served from cache",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "users_table",
		Name:      "cache_misses_total",
		Help:      "Total number of user collection reads that missed the cache",
	})
	upstreamFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "users_table",
		Name:      "upstream_fetches_total",
		Help:      "Total number of upstream fetch attempts by outcome",
	}, []string{"outcome"})
	upstreamFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "users_table",
		Name:      "upstream_fetch_duration_seconds",
		Help:      "Histogram of upstream fetch durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10), // ~50ms up to several seconds
	})
	detailLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "users_table",
		Name:      "detail_lookups_total",
		Help:      "Total number of user detail lookups by outcome",
	}, []string{"outcome"})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(cacheHits, cacheMisses,
			upstreamFetches, upstreamFetchDuration, detailLookups)
	})
}

// Cache counters
func IncCacheHit()  { cacheHits.Inc() }
func IncCacheMiss() { cacheMisses.Inc() }

// Upstream fetch lifecycle
func IncUpstreamFetchSucceeded() { upstreamFetches.WithLabelValues("success").Inc() }
func IncUpstreamFetchFailed()    { upstreamFetches.WithLabelValues("failure").Inc() }
func ObserveUpstreamFetchDuration(d time.Duration) {
	upstreamFetchDuration.Observe(d.Seconds())
}

// Detail lookup outcomes
func IncDetailLookupFound()    { detailLookups.WithLabelValues("found").Inc() }
func IncDetailLookupNotFound() { detailLookups.WithLabelValues("not_found").Inc() }
