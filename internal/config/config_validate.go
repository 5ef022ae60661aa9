// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/tubemix/internal/logging"
)

// Validate checks that required configuration is present and valid.
// The recommend section is also checked against the engine's own rules.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateYouTube(); err != nil {
		return err
	}

	if err := c.validatePreferences(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

// YouTube Data API caps maxResults at 50.
const maxYouTubeResults = 50

// validateYouTube validates the Data API client settings.
// An API key is required unless an alternate endpoint is configured.
func (c *Config) validateYouTube() error {
	yt := &c.YouTube

	if yt.Endpoint != "" {
		if err := validateHTTPURL(yt.Endpoint, "YOUTUBE_ENDPOINT"); err != nil {
			return err
		}
	} else if strings.TrimSpace(yt.APIKey) == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}

	if yt.APIKey != "" && containsPlaceholder(yt.APIKey) {
		return fmt.Errorf("YOUTUBE_API_KEY appears to be a placeholder value")
	}
	if yt.MaxResults < 1 || yt.MaxResults > maxYouTubeResults {
		return fmt.Errorf("YOUTUBE_MAX_RESULTS must be between 1 and %d, got %d", maxYouTubeResults, yt.MaxResults)
	}
	if yt.Timeout <= 0 {
		return fmt.Errorf("YOUTUBE_TIMEOUT must be positive, got %v", yt.Timeout)
	}
	if yt.RateLimitRPS <= 0 {
		return fmt.Errorf("YOUTUBE_RATE_LIMIT_RPS must be positive, got %v", yt.RateLimitRPS)
	}
	if yt.RateLimitBurst < 1 {
		return fmt.Errorf("YOUTUBE_RATE_LIMIT_BURST must be at least 1, got %d", yt.RateLimitBurst)
	}
	if yt.CacheSize < 1 {
		return fmt.Errorf("YOUTUBE_CACHE_SIZE must be at least 1, got %d", yt.CacheSize)
	}
	if yt.CacheTTL <= 0 {
		return fmt.Errorf("YOUTUBE_CACHE_TTL must be positive, got %v", yt.CacheTTL)
	}
	if yt.MaxPageWalk < 0 {
		return fmt.Errorf("YOUTUBE_MAX_PAGE_WALK must be non-negative, got %d", yt.MaxPageWalk)
	}
	return c.validateBreaker()
}

func (c *Config) validateBreaker() error {
	yt := &c.YouTube
	if yt.BreakerMaxRequests < 1 {
		return fmt.Errorf("YOUTUBE_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if yt.BreakerTimeout <= 0 {
		return fmt.Errorf("YOUTUBE_BREAKER_TIMEOUT must be positive, got %v", yt.BreakerTimeout)
	}
	if yt.BreakerFailureRatio <= 0 || yt.BreakerFailureRatio > 1 {
		return fmt.Errorf("YOUTUBE_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", yt.BreakerFailureRatio)
	}
	return nil
}

func (c *Config) validatePreferences() error {
	if !c.Preferences.InMemory && strings.TrimSpace(c.Preferences.Path) == "" {
		return fmt.Errorf("PREFERENCES_PATH is required unless PREFERENCES_IN_MEMORY=true")
	}
	return nil
}

// validateRecommend validates request-level settings and defers the rest
// to the engine config validation.
func (c *Config) validateRecommend() error {
	if c.Recommend.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be positive, got %v", c.Recommend.RequestTimeout)
	}
	if err := c.RecommendConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates CORS and inbound rate limiting.
func (c *Config) validateSecurity() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}

	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns catch example values copied from documentation.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_API_KEY",
	"PLACEHOLDER",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
