// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/tomtom215/tubemix/internal/config"
	"github.com/tomtom215/tubemix/internal/metrics"
	"github.com/tomtom215/tubemix/internal/recommend"
	"github.com/tomtom215/tubemix/internal/youtube"
)

// RecommendComponents holds the catalog client and the engine built on it.
type RecommendComponents struct {
	Client *youtube.Client
	Engine *recommend.Engine
}

// initRecommend builds the YouTube client and the engine. Extra client
// options are passed through to the API client.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts ...option.ClientOption) (*RecommendComponents, error) {
	client, err := youtube.NewClient(ctx, &cfg.YouTube, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube client: %w", err)
	}

	engineCfg := cfg.RecommendConfig()
	engine, err := recommend.NewEngine(engineCfg, client, logger,
		recommend.WithObserver(metrics.EngineObserver{}))
	if err != nil {
		return nil, fmt.Errorf("recommendation engine: %w", err)
	}

	logger.Info().
		Int64("seed", engineCfg.Seed).
		Float64("mix_ratio", engineCfg.Pipeline.MixRatio).
		Int("max_queries", engineCfg.Planner.MaxQueries).
		Int("fetch_concurrency", engineCfg.Fetch.Concurrency).
		Str("region", cfg.YouTube.RegionCode).
		Msg("Recommendation engine initialized")

	return &RecommendComponents{Client: client, Engine: engine}, nil
}
