// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

/*
Package metrics provides Prometheus instrumentation for Tubemix.

All collectors are registered on the default registry through promauto and
exposed by the API at GET /metrics.

# Metric Families

Engine:
  - tubemix_fetches_total{kind,outcome}: collaborator calls (search, channel, related, recommended)
  - tubemix_fetch_duration_seconds{kind}
  - tubemix_pipeline_runs_total{pipeline}, tubemix_pipeline_duration_seconds{pipeline}
  - tubemix_pipeline_candidates{pipeline}, tubemix_pipeline_results{pipeline}
  - tubemix_fallback_activations_total{from}

YouTube client:
  - tubemix_youtube_api_calls_total{endpoint,outcome}
  - tubemix_youtube_rate_limit_wait_seconds
  - tubemix_circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - tubemix_circuit_breaker_requests_total{name,result}
  - tubemix_circuit_breaker_state_transitions_total{name,from_state,to_state}
  - tubemix_cache_hits_total{cache}, tubemix_cache_misses_total{cache}

Preferences and API:
  - tubemix_preference_store_operations_total{operation,outcome}
  - tubemix_preference_events_total{direction,outcome}
  - tubemix_api_requests_total{method,endpoint,status_code}
  - tubemix_api_request_duration_seconds{method,endpoint}
  - tubemix_api_active_requests, tubemix_api_rate_limit_hits_total{endpoint}

EngineObserver adapts the engine's recommend.Observer hooks onto these
collectors.
*/
package metrics
