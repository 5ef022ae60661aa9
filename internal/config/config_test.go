// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns defaults plus the one required value.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.YouTube.APIKey = "AIzaSyTestKey"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"no shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "HTTP_SHUTDOWN_TIMEOUT"},
		{"blank api key", func(c *Config) { c.YouTube.APIKey = "  " }, "YOUTUBE_API_KEY is required"},
		{"endpoint replaces key", func(c *Config) {
			c.YouTube.APIKey = ""
			c.YouTube.Endpoint = "http://localhost:8081/"
		}, ""},
		{"endpoint with path", func(c *Config) { c.YouTube.Endpoint = "http://localhost/youtube/v3" }, "YOUTUBE_ENDPOINT"},
		{"max results too high", func(c *Config) { c.YouTube.MaxResults = 51 }, "YOUTUBE_MAX_RESULTS"},
		{"zero rps", func(c *Config) { c.YouTube.RateLimitRPS = 0 }, "YOUTUBE_RATE_LIMIT_RPS"},
		{"zero burst", func(c *Config) { c.YouTube.RateLimitBurst = 0 }, "YOUTUBE_RATE_LIMIT_BURST"},
		{"zero cache", func(c *Config) { c.YouTube.CacheSize = 0 }, "YOUTUBE_CACHE_SIZE"},
		{"negative page walk", func(c *Config) { c.YouTube.MaxPageWalk = -1 }, "YOUTUBE_MAX_PAGE_WALK"},
		{"breaker ratio", func(c *Config) { c.YouTube.BreakerFailureRatio = 1.2 }, "YOUTUBE_BREAKER_FAILURE_RATIO"},
		{"no preferences path", func(c *Config) { c.Preferences.Path = "" }, "PREFERENCES_PATH"},
		{"in-memory preferences", func(c *Config) {
			c.Preferences.Path = ""
			c.Preferences.InMemory = true
		}, ""},
		{"request timeout", func(c *Config) { c.Recommend.RequestTimeout = 0 }, "RECOMMEND_REQUEST_TIMEOUT"},
		{"short survival rate", func(c *Config) { c.Recommend.ShortSurvivalRate = -0.1 }, "recommend:"},
		{"zero concurrency", func(c *Config) { c.Recommend.FetchConcurrency = 0 }, "recommend:"},
		{"bad cors origin", func(c *Config) { c.Security.CORSOrigins = []string{"ftp://x.io"} }, "CORS_ORIGINS"},
		{"rate limit window", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_RecommendConfig(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Recommend = RecommendConfig{
		Seed:              7,
		MixRatio:          0.5,
		MaxQueries:        3,
		HistoryWindow:     10,
		ShortSurvivalRate: 1,
		ResultLimit:       12,
		MaxLimit:          40,
		FetchConcurrency:  2,
		ExcludeWatched:    false,
		RequestTimeout:    time.Second,
	}

	rc := cfg.RecommendConfig()
	if rc.Seed != 7 {
		t.Errorf("Seed = %d, want 7", rc.Seed)
	}
	if rc.Pipeline.MixRatio != 0.5 {
		t.Errorf("Pipeline.MixRatio = %v, want 0.5", rc.Pipeline.MixRatio)
	}
	if rc.Planner.MaxQueries != 3 {
		t.Errorf("Planner.MaxQueries = %d, want 3", rc.Planner.MaxQueries)
	}
	if rc.Profile.HistoryWindow != 10 {
		t.Errorf("Profile.HistoryWindow = %d, want 10", rc.Profile.HistoryWindow)
	}
	if rc.Pipeline.ShortSurvivalRate != 1 {
		t.Errorf("Pipeline.ShortSurvivalRate = %v, want 1", rc.Pipeline.ShortSurvivalRate)
	}
	if rc.Pipeline.DefaultLimit != 12 || rc.Pipeline.MaxLimit != 40 {
		t.Errorf("limits = %d/%d, want 12/40", rc.Pipeline.DefaultLimit, rc.Pipeline.MaxLimit)
	}
	if rc.Fetch.Concurrency != 2 {
		t.Errorf("Fetch.Concurrency = %d, want 2", rc.Fetch.Concurrency)
	}
	if rc.Pipeline.ExcludeWatched {
		t.Error("Pipeline.ExcludeWatched = true, want false")
	}

	// Unexposed scoring constants keep engine defaults
	if rc.Scoring.NGScore != -10000 {
		t.Errorf("Scoring.NGScore = %d, want -10000", rc.Scoring.NGScore)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("RecommendConfig().Validate() error = %v", err)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8420}
	if got := s.Addr(); got != "127.0.0.1:8420" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8420", got)
	}
}

func TestValidateHTTPURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:8080", false},
		{"https://youtube.googleapis.com/", false},
		{"ftp://example.com", true},
		{"http://", true},
		{"https://example.com/youtube/v3", true},
		{"https://example.com/?key=x", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			err := validateHTTPURL(tt.url, "FIELD")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestHasWildcardCORS(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if !cfg.HasWildcardCORS() {
		t.Error("HasWildcardCORS() = false for default origins")
	}
	cfg.Security.CORSOrigins = []string{"https://tubemix.example.com"}
	if cfg.HasWildcardCORS() {
		t.Error("HasWildcardCORS() = true for explicit origins")
	}
}
