// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package metrics

import (
	"time"

	"github.com/tomtom215/tubemix/internal/recommend"
)

// EngineObserver exports recommendation engine events to Prometheus.
//
//	engine, err := recommend.NewEngine(cfg, client, logger,
//	    recommend.WithObserver(metrics.EngineObserver{}))
type EngineObserver struct{}

var _ recommend.Observer = EngineObserver{}

// ObserveFetch implements recommend.Observer.
func (EngineObserver) ObserveFetch(kind recommend.FetchKind, d time.Duration, videos int, err error) {
	RecordFetch(string(kind), d, videos, err)
}

// ObservePipeline implements recommend.Observer.
func (EngineObserver) ObservePipeline(p recommend.Pipeline, d time.Duration, candidates, results int) {
	RecordPipeline(string(p), d, candidates, results)
}

// ObserveFallback implements recommend.Observer.
func (EngineObserver) ObserveFallback(from recommend.Pipeline) {
	RecordFallback(string(from))
}
