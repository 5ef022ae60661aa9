// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPruneInterval is used when NewCachePruneService gets a
// non-positive interval.
const DefaultPruneInterval = 5 * time.Minute

// CachePruner is satisfied by *youtube.Client.
type CachePruner interface {
	PruneCaches() int
}

// CachePruneService drops expired cache entries on a fixed interval.
type CachePruneService struct {
	pruner   CachePruner
	interval time.Duration
	logger   zerolog.Logger
}

// NewCachePruneService creates a prune loop for pruner.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewCachePruneService(pruner CachePruner, interval time.Duration, logger zerolog.Logger) *CachePruneService {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}
	return &CachePruneService{
		pruner:   pruner,
		interval: interval,
		logger:   logger.With().Str("service", "cache-prune").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CachePruneService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.pruner.PruneCaches(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("Pruned expired cache entries")
			}
		}
	}
}

// String identifies the service in supervisor events.
func (s *CachePruneService) String() string {
	return "cache-prune"
}
