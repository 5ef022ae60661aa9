// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/tubemix/internal/recommend"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	engineCfg := cfg.RecommendConfig()
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	YouTube     YouTubeConfig     `koanf:"youtube"`
	Preferences PreferencesConfig `koanf:"preferences"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Security    SecurityConfig    `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8420)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - HTTP_SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 10s)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// YouTubeConfig holds YouTube Data API client settings.
//
// Environment Variables:
//   - YOUTUBE_API_KEY: Data API key (required)
//   - YOUTUBE_ENDPOINT: Override the API base URL (testing/proxies)
//   - YOUTUBE_REGION_CODE: Region for the most-popular chart (default: US)
//   - YOUTUBE_MAX_RESULTS: Results per call, 1-50 (default: 25)
//   - YOUTUBE_TIMEOUT: Per-call timeout (default: 10s)
//   - YOUTUBE_RATE_LIMIT_RPS / YOUTUBE_RATE_LIMIT_BURST: Outbound limiter
//   - YOUTUBE_CACHE_SIZE / YOUTUBE_CACHE_TTL: Response cache bounds
type YouTubeConfig struct {
	APIKey         string        `koanf:"api_key"`
	Endpoint       string        `koanf:"endpoint"`
	RegionCode     string        `koanf:"region_code"`
	MaxResults     int64         `koanf:"max_results"`
	Timeout        time.Duration `koanf:"timeout"`
	RateLimitRPS   float64       `koanf:"rate_limit_rps"`
	RateLimitBurst int           `koanf:"rate_limit_burst"`
	CacheSize      int           `koanf:"cache_size"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	MaxPageWalk    int           `koanf:"max_page_walk"`

	// Circuit breaker settings
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// PreferencesConfig holds preference store settings.
//
// Environment Variables:
//   - PREFERENCES_PATH: BadgerDB directory (default: /data/preferences)
//   - PREFERENCES_IN_MEMORY: Keep preferences in memory only (default: false)
type PreferencesConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// RecommendConfig holds the recommendation engine settings exposed to
// operators. Everything else uses the engine defaults.
//
// Environment Variables:
//   - RECOMMEND_SEED: Random seed (default: 42)
//   - RECOMMEND_MIX_RATIO: Discovery share of mixed output (default: 0.65)
//   - RECOMMEND_MAX_QUERIES: Strict pipeline query cap (default: 6)
//   - RECOMMEND_HISTORY_WINDOW: Profile lookback (default: 20)
//   - RECOMMEND_SHORT_SURVIVAL_RATE: Short-video keep rate (default: 0.3)
//   - RECOMMEND_RESULT_LIMIT / RECOMMEND_MAX_LIMIT: Result caps
//   - RECOMMEND_FETCH_CONCURRENCY: In-flight API calls per request (default: 8)
//   - RECOMMEND_REQUEST_TIMEOUT: Per-request budget (default: 10s)
type RecommendConfig struct {
	Seed              int64         `koanf:"seed"`
	MixRatio          float64       `koanf:"mix_ratio"`
	MaxQueries        int           `koanf:"max_queries"`
	HistoryWindow     int           `koanf:"history_window"`
	ShortSurvivalRate float64       `koanf:"short_survival_rate"`
	ResultLimit       int           `koanf:"result_limit"`
	MaxLimit          int           `koanf:"max_limit"`
	FetchConcurrency  int           `koanf:"fetch_concurrency"`
	ExcludeWatched    bool          `koanf:"exclude_watched"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
}

// SecurityConfig holds HTTP hardening settings.
//
// Environment Variables:
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Disable per-IP rate limiting (default: false)
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// RecommendConfig converts the recommend section into an engine config
// layered over the engine defaults.
func (c *Config) RecommendConfig() *recommend.Config {
	rc := recommend.DefaultConfig()
	r := &c.Recommend

	rc.Seed = r.Seed
	rc.Pipeline.MixRatio = r.MixRatio
	rc.Planner.MaxQueries = r.MaxQueries
	rc.Profile.HistoryWindow = r.HistoryWindow
	rc.Pipeline.ShortSurvivalRate = r.ShortSurvivalRate
	rc.Pipeline.DefaultLimit = r.ResultLimit
	rc.Pipeline.MaxLimit = r.MaxLimit
	rc.Fetch.Concurrency = r.FetchConcurrency
	rc.Pipeline.ExcludeWatched = r.ExcludeWatched

	return rc
}
