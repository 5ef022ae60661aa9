// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package api

import (
	"context"
	"time"

	"github.com/tomtom215/tubemix/internal/recommend"
)

// Recommender runs recommendation pipelines. *recommend.Engine satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) *recommend.Result
	Stats() (requests, fallbacks int64)
}

// PreferenceStore loads and saves the explicit preference snapshot.
// *preferences.Store satisfies it.
type PreferenceStore interface {
	Load(ctx context.Context) recommend.Preferences
	Save(ctx context.Context, prefs recommend.Preferences) error
}

// BreakerStater reports the upstream circuit breaker state.
// *youtube.Client satisfies it.
type BreakerStater interface {
	BreakerState() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness
//   - handlers_recommend.go: recommendation pipelines
//   - handlers_preferences.go: preference snapshot get/put
type Handler struct {
	engine         Recommender
	prefs          PreferenceStore
	upstream       BreakerStater
	requestTimeout time.Duration
	maxLimit       int
	startTime      time.Time
}

// HandlerConfig wires a Handler. Upstream is optional.
type HandlerConfig struct {
	Engine         Recommender
	Preferences    PreferenceStore
	Upstream       BreakerStater
	RequestTimeout time.Duration
	MaxLimit       int
}

// NewHandler creates a new API handler.
//
//nolint:gocritic // hugeParam: config struct passed once at startup
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Handler{
		engine:         cfg.Engine,
		prefs:          cfg.Preferences,
		upstream:       cfg.Upstream,
		requestTimeout: cfg.RequestTimeout,
		maxLimit:       cfg.MaxLimit,
		startTime:      time.Now(),
	}
}
