package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FetchMetrics records the outcome of catalog API fetches.
type FetchMetrics struct {
	duration   *prometheus.HistogramVec
	success    *prometheus.CounterVec
	failure    *prometheus.CounterVec
	staleDrops prometheus.Counter
	cacheHits  prometheus.Counter
	cacheMiss  prometheus.Counter
}

// NewFetchMetrics registers the fetch metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewFetchMetrics(reg prometheus.Registerer) *FetchMetrics {
	if reg == nil {
		return &FetchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fetch_duration_seconds",
		Help:    "Duration of API fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fetch_success",
		Help: "Successful API fetches.",
	}, []string{"endpoint"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fetch_failure",
		Help: "Failed API fetches.",
	}, []string{"endpoint"})
	staleDrops := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_stale_dropped",
		Help: "Fetch responses discarded because a newer fetch was issued.",
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "page_cache_hits",
		Help: "Listing page loads served from cache.",
	})
	cacheMiss := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "page_cache_misses",
		Help: "Listing page loads that fell through to the network.",
	})
	reg.MustRegister(duration, success, failure, staleDrops, cacheHits, cacheMiss)
	return &FetchMetrics{
		duration:   duration,
		success:    success,
		failure:    failure,
		staleDrops: staleDrops,
		cacheHits:  cacheHits,
		cacheMiss:  cacheMiss,
	}
}

// ObserveDuration records the duration for the named endpoint.
func (f *FetchMetrics) ObserveDuration(endpoint string, duration time.Duration) {
	if f == nil || f.duration == nil {
		return
	}
	f.duration.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named endpoint.
func (f *FetchMetrics) IncSuccess(endpoint string) {
	if f == nil || f.success == nil {
		return
	}
	f.success.WithLabelValues(normalizeLabel(endpoint)).Inc()
}

// IncFailure increments the failure counter for the named endpoint.
func (f *FetchMetrics) IncFailure(endpoint string) {
	if f == nil || f.failure == nil {
		return
	}
	f.failure.WithLabelValues(normalizeLabel(endpoint)).Inc()
}

// IncStaleDropped counts a response discarded by the sequence guard.
func (f *FetchMetrics) IncStaleDropped() {
	if f == nil || f.staleDrops == nil {
		return
	}
	f.staleDrops.Inc()
}

// IncCacheHit counts a page load served from the cache.
func (f *FetchMetrics) IncCacheHit() {
	if f == nil || f.cacheHits == nil {
		return
	}
	f.cacheHits.Inc()
}

// IncCacheMiss counts a page load that went to the network.
func (f *FetchMetrics) IncCacheMiss() {
	if f == nil || f.cacheMiss == nil {
		return
	}
	f.cacheMiss.Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
