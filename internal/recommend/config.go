// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Scoring contains the additive scoring weights and thresholds.
	Scoring ScoringConfig `json:"scoring"`

	// Profile contains the user profile builder parameters.
	Profile ProfileConfig `json:"profile"`

	// Planner contains query planning parameters.
	Planner PlannerConfig `json:"planner"`

	// Fetch contains fan-out parameters.
	Fetch FetchConfig `json:"fetch"`

	// Pipeline contains pipeline composition parameters.
	Pipeline PipelineConfig `json:"pipeline"`

	// Seed is the random seed for reproducible sampling and shuffles.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// ScoringConfig holds the scorer weights. All bonuses are added and all
// penalties are subtracted, so every value here is a magnitude.
type ScoringConfig struct {
	// NGScore is the sentinel score assigned on an NG keyword match.
	NGScore int `json:"ng_score"`

	// DurationBonus is added when the duration bucket is preferred.
	DurationBonus int `json:"duration_bonus"`

	// DurationPenalty is subtracted for a known, non-preferred duration.
	DurationPenalty int `json:"duration_penalty"`

	// ChannelBonus is added for a preferred channel-name match.
	ChannelBonus int `json:"channel_bonus"`

	// SubscriptionBonus is added for a subscribed channel.
	SubscriptionBonus int `json:"subscription_bonus"`

	// GenreBonus is added per matching preferred genre.
	GenreBonus int `json:"genre_bonus"`

	// ContextBonus is added per matching context preference.
	ContextBonus int `json:"context_bonus"`

	// FreshnessBonus is added for recent uploads when new content is preferred.
	FreshnessBonus int `json:"freshness_bonus"`

	// RejectThreshold rejects candidates scoring at or below it.
	RejectThreshold int `json:"reject_threshold"`

	// RecentWindow is the maximum age of an RFC3339 recency descriptor
	// that still counts as recent.
	RecentWindow time.Duration `json:"recent_window"`
}

// ProfileConfig holds the user profile builder parameters.
type ProfileConfig struct {
	// HistoryWindow is the number of most recent watch entries considered.
	HistoryWindow int `json:"history_window"`

	// SearchWindow is the number of most recent searches considered.
	SearchWindow int `json:"search_window"`

	// WatchWeight is the base weight of a watch-history keyword.
	WatchWeight float64 `json:"watch_weight"`

	// SearchWeight is the base weight of a search-history keyword.
	SearchWeight float64 `json:"search_weight"`

	// SubscriptionWeight is the weight of a subscribed channel name.
	SubscriptionWeight float64 `json:"subscription_weight"`
}

// ModeQuota bounds subscription-driven sourcing for one discovery mode.
type ModeQuota struct {
	// Queries is the number of subscribed channel names used as queries.
	Queries int `json:"queries"`

	// Feeds is the number of subscribed channel feeds fetched directly.
	Feeds int `json:"feeds"`
}

// PlannerConfig holds query planning parameters.
type PlannerConfig struct {
	// MaxQueries caps the number of distinct search queries per plan.
	MaxQueries int `json:"max_queries"`

	// HistoryWindow is the number of recent watch entries mined for keywords.
	HistoryWindow int `json:"history_window"`

	// KeywordsPerVideo is the number of keywords taken from each entry.
	KeywordsPerVideo int `json:"keywords_per_video"`

	// SearchWindow is the number of recent searches eligible for sampling.
	SearchWindow int `json:"search_window"`

	// SearchSample is the number of searches sampled from the window.
	SearchSample int `json:"search_sample"`

	// Subscription, Balanced and Discovery are the per-mode quotas.
	Subscription ModeQuota `json:"subscription"`
	Balanced     ModeQuota `json:"balanced"`
	Discovery    ModeQuota `json:"discovery"`

	// GenericQueries is the fixed set of trending/category fallbacks.
	GenericQueries []string `json:"generic_queries"`

	// GenericCount is how many generic queries are sampled.
	GenericCount int `json:"generic_count"`

	// NewModifier and ClassicModifier are appended for freshness intent.
	NewModifier     string `json:"new_modifier"`
	ClassicModifier string `json:"classic_modifier"`
}

// Quota returns the quota for a discovery mode.
func (c *PlannerConfig) Quota(mode DiscoveryMode) ModeQuota {
	switch mode {
	case ModeSubscription:
		return c.Subscription
	case ModeDiscovery:
		return c.Discovery
	default:
		return c.Balanced
	}
}

// FetchConfig holds fan-out parameters.
type FetchConfig struct {
	// Concurrency bounds the number of in-flight collaborator calls.
	Concurrency int `json:"concurrency"`
}

// PipelineConfig holds pipeline composition parameters.
type PipelineConfig struct {
	// DefaultLimit is the result cap when a request specifies none.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit is the largest accepted result cap.
	MaxLimit int `json:"max_limit"`

	// MixRatio is the target share of the discovery pool in mixed output.
	MixRatio float64 `json:"mix_ratio"`

	// TopKeywords is the number of profile keywords driving discovery.
	TopKeywords int `json:"top_keywords"`

	// ChunkSize is the number of terms OR-ed into one discovery query.
	ChunkSize int `json:"chunk_size"`

	// MaxDiscoveryQueries caps the discovery track's queries.
	MaxDiscoveryQueries int `json:"max_discovery_queries"`

	// ComfortChannels is the number of subscription feeds on the comfort track.
	ComfortChannels int `json:"comfort_channels"`

	// ShortSurvivalRate is the probability that a short video survives
	// mixed ranking when the user stated no duration preference.
	ShortSurvivalRate float64 `json:"short_survival_rate"`

	// RelevanceWeight scales profile relevance into score points.
	RelevanceWeight float64 `json:"relevance_weight"`

	// FreshnessWeight is added to recent videos on the discovery track.
	FreshnessWeight int `json:"freshness_weight"`

	// AffinityWeight is added per recent watch from the same channel on
	// the comfort track.
	AffinityWeight int `json:"affinity_weight"`

	// MaxAffinity caps the number of watches counted for affinity.
	MaxAffinity int `json:"max_affinity"`

	// ExcludeWatched drops candidates already in the watch history.
	ExcludeWatched bool `json:"exclude_watched"`

	// FallbackOnEmpty runs the fallback pipeline when a pipeline yields nothing.
	FallbackOnEmpty bool `json:"fallback_on_empty"`
}

// DefaultConfig returns a configuration with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			NGScore:           -10000,
			DurationBonus:     200,
			DurationPenalty:   500,
			ChannelBonus:      50,
			SubscriptionBonus: 30,
			GenreBonus:        40,
			ContextBonus:      30,
			FreshnessBonus:    20,
			RejectThreshold:   -100,
			RecentWindow:      7 * 24 * time.Hour,
		},
		Profile: ProfileConfig{
			HistoryWindow:      20,
			SearchWindow:       10,
			WatchWeight:        1.0,
			SearchWeight:       1.5,
			SubscriptionWeight: 0.5,
		},
		Planner: PlannerConfig{
			MaxQueries:       6,
			HistoryWindow:    5,
			KeywordsPerVideo: 2,
			SearchWindow:     10,
			SearchSample:     2,
			Subscription:     ModeQuota{Queries: 2, Feeds: 3},
			Balanced:         ModeQuota{Queries: 1, Feeds: 2},
			Discovery:        ModeQuota{Queries: 0, Feeds: 0},
			GenericQueries: []string{
				"trending", "急上昇", "music", "gaming", "news",
				"documentary", "cooking", "science",
			},
			GenericCount:    3,
			NewModifier:     "new",
			ClassicModifier: "classic",
		},
		Fetch: FetchConfig{
			Concurrency: 8,
		},
		Pipeline: PipelineConfig{
			DefaultLimit:        30,
			MaxLimit:            100,
			MixRatio:            0.65,
			TopKeywords:         8,
			ChunkSize:           3,
			MaxDiscoveryQueries: 4,
			ComfortChannels:     2,
			ShortSurvivalRate:   0.3,
			RelevanceWeight:     5,
			FreshnessWeight:     20,
			AffinityWeight:      10,
			MaxAffinity:         3,
			ExcludeWatched:      true,
			FallbackOnEmpty:     true,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Scoring.NGScore >= c.Scoring.RejectThreshold {
		return fmt.Errorf("scoring.ng_score must be below scoring.reject_threshold, got %d >= %d",
			c.Scoring.NGScore, c.Scoring.RejectThreshold)
	}
	if c.Scoring.DurationPenalty < 0 {
		return fmt.Errorf("scoring.duration_penalty must be non-negative, got %d", c.Scoring.DurationPenalty)
	}
	if c.Scoring.RecentWindow < 0 {
		return fmt.Errorf("scoring.recent_window must be non-negative, got %v", c.Scoring.RecentWindow)
	}

	if c.Profile.HistoryWindow < 1 {
		return fmt.Errorf("profile.history_window must be positive, got %d", c.Profile.HistoryWindow)
	}
	if c.Profile.SearchWindow < 0 {
		return fmt.Errorf("profile.search_window must be non-negative, got %d", c.Profile.SearchWindow)
	}
	if c.Profile.WatchWeight < 0 || c.Profile.SearchWeight < 0 || c.Profile.SubscriptionWeight < 0 {
		return fmt.Errorf("profile weights must be non-negative")
	}

	if err := c.validatePlanner(); err != nil {
		return err
	}

	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch.concurrency must be positive, got %d", c.Fetch.Concurrency)
	}

	return c.validatePipeline()
}

func (c *Config) validatePlanner() error {
	p := &c.Planner
	if p.MaxQueries < 1 {
		return fmt.Errorf("planner.max_queries must be positive, got %d", p.MaxQueries)
	}
	if p.HistoryWindow < 0 {
		return fmt.Errorf("planner.history_window must be non-negative, got %d", p.HistoryWindow)
	}
	if p.KeywordsPerVideo < 1 {
		return fmt.Errorf("planner.keywords_per_video must be positive, got %d", p.KeywordsPerVideo)
	}
	if p.SearchSample < 0 || p.SearchWindow < 0 {
		return fmt.Errorf("planner.search_sample and planner.search_window must be non-negative")
	}
	for name, q := range map[string]ModeQuota{
		"subscription": p.Subscription,
		"balanced":     p.Balanced,
		"discovery":    p.Discovery,
	} {
		if q.Queries < 0 || q.Feeds < 0 {
			return fmt.Errorf("planner.%s quota must be non-negative, got %+v", name, q)
		}
	}
	if len(p.GenericQueries) == 0 {
		return fmt.Errorf("planner.generic_queries must not be empty")
	}
	if p.GenericCount < 1 {
		return fmt.Errorf("planner.generic_count must be positive, got %d", p.GenericCount)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	p := &c.Pipeline
	if p.DefaultLimit < 1 {
		return fmt.Errorf("pipeline.default_limit must be positive, got %d", p.DefaultLimit)
	}
	if p.MaxLimit < p.DefaultLimit {
		return fmt.Errorf("pipeline.max_limit must be >= pipeline.default_limit, got %d < %d", p.MaxLimit, p.DefaultLimit)
	}
	if p.MixRatio < 0 || p.MixRatio > 1 {
		return fmt.Errorf("pipeline.mix_ratio must be in [0, 1], got %f", p.MixRatio)
	}
	if p.ShortSurvivalRate < 0 || p.ShortSurvivalRate > 1 {
		return fmt.Errorf("pipeline.short_survival_rate must be in [0, 1], got %f", p.ShortSurvivalRate)
	}
	if p.TopKeywords < 1 {
		return fmt.Errorf("pipeline.top_keywords must be positive, got %d", p.TopKeywords)
	}
	if p.ChunkSize < 1 {
		return fmt.Errorf("pipeline.chunk_size must be positive, got %d", p.ChunkSize)
	}
	if p.MaxDiscoveryQueries < 1 {
		return fmt.Errorf("pipeline.max_discovery_queries must be positive, got %d", p.MaxDiscoveryQueries)
	}
	if p.ComfortChannels < 0 {
		return fmt.Errorf("pipeline.comfort_channels must be non-negative, got %d", p.ComfortChannels)
	}
	if p.RelevanceWeight < 0 {
		return fmt.Errorf("pipeline.relevance_weight must be non-negative, got %f", p.RelevanceWeight)
	}
	if p.MaxAffinity < 0 {
		return fmt.Errorf("pipeline.max_affinity must be non-negative, got %d", p.MaxAffinity)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Planner.GenericQueries = cloneStrings(c.Planner.GenericQueries)
	return &cp
}
