// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// Fetch Metrics (one per collaborator call made by the orchestrator)
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_fetches_total",
			Help: "Total number of video source fetches",
		},
		[]string{"kind", "outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubemix_fetch_duration_seconds",
			Help:    "Duration of video source fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	FetchVideos = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubemix_fetch_videos",
			Help:    "Number of videos returned per fetch",
			Buckets: []float64{0, 1, 5, 10, 25, 50},
		},
		[]string{"kind"},
	)

	// Pipeline Metrics
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_pipeline_runs_total",
			Help: "Total number of pipeline executions",
		},
		[]string{"pipeline"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubemix_pipeline_duration_seconds",
			Help:    "End-to-end pipeline duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"pipeline"},
	)

	PipelineCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubemix_pipeline_candidates",
			Help:    "Deduplicated candidates considered per pipeline run",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500},
		},
		[]string{"pipeline"},
	)

	PipelineResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubemix_pipeline_results",
			Help:    "Videos returned per pipeline run",
			Buckets: []float64{0, 5, 10, 20, 30, 50, 100},
		},
		[]string{"pipeline"},
	)

	FallbackActivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_fallback_activations_total",
			Help: "Total number of requests served by the fallback pipeline instead of the requested one",
		},
		[]string{"from"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tubemix_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// YouTube Data API Metrics
	YouTubeCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_youtube_api_calls_total",
			Help: "Total number of YouTube Data API calls",
		},
		[]string{"endpoint", "outcome"},
	)

	YouTubeRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tubemix_youtube_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the outbound rate limiter",
			Buckets: []float64{0, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tubemix_cache_entries",
			Help: "Live entries per cache after the last prune",
		},
		[]string{"cache"},
	)

	// Preference Metrics
	PreferenceStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_preference_store_operations_total",
			Help: "Total number of preference store operations",
		},
		[]string{"operation", "outcome"},
	)

	PreferenceEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_preference_events_total",
			Help: "Total number of preference events by direction",
		},
		[]string{"direction", "outcome"}, // direction: "published", "consumed"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubemix_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tubemix_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemix_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// RecordFetch records one collaborator call.
func RecordFetch(kind string, duration time.Duration, videos int, err error) {
	FetchesTotal.WithLabelValues(kind, outcome(err)).Inc()
	FetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
	FetchVideos.WithLabelValues(kind).Observe(float64(videos))
}

// RecordPipeline records a completed pipeline run.
func RecordPipeline(pipeline string, duration time.Duration, candidates, results int) {
	PipelineRuns.WithLabelValues(pipeline).Inc()
	PipelineDuration.WithLabelValues(pipeline).Observe(duration.Seconds())
	PipelineCandidates.WithLabelValues(pipeline).Observe(float64(candidates))
	PipelineResults.WithLabelValues(pipeline).Observe(float64(results))
}

// RecordFallback records a request that ended up on the fallback pipeline.
func RecordFallback(from string) {
	FallbackActivations.WithLabelValues(from).Inc()
}

// breakerStateValues maps breaker state names to gauge values.
var breakerStateValues = map[string]float64{
	"closed":    0,
	"half-open": 1,
	"open":      2,
}

// RecordBreakerTransition records a state change and updates the state gauge.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	if v, ok := breakerStateValues[to]; ok {
		CircuitBreakerState.WithLabelValues(name).Set(v)
	}
}

// RecordBreakerRequest records a request outcome: success, failure or rejected.
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordYouTubeCall records one Data API call.
func RecordYouTubeCall(endpoint string, err error) {
	YouTubeCalls.WithLabelValues(endpoint, outcome(err)).Inc()
}

// RecordRateLimitWait records time spent in the outbound limiter.
func RecordRateLimitWait(d time.Duration) {
	YouTubeRateLimitWait.Observe(d.Seconds())
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordCacheSize sets the entry gauge for cache.
func RecordCacheSize(cache string, entries int) {
	CacheEntries.WithLabelValues(cache).Set(float64(entries))
}

// RecordStoreOperation records a preference store read or write.
func RecordStoreOperation(operation string, err error) {
	PreferenceStoreOps.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordPreferenceEvent records a published or consumed preference event.
func RecordPreferenceEvent(direction string, err error) {
	PreferenceEvents.WithLabelValues(direction, outcome(err)).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records an inbound rate limit rejection.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}
