// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tubemix/config.yaml",
	"/etc/tubemix/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	engine := recommendDefaults()

	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8420,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		YouTube: YouTubeConfig{
			RegionCode:          "US",
			MaxResults:          25,
			Timeout:             10 * time.Second,
			RateLimitRPS:        5,
			RateLimitBurst:      10,
			CacheSize:           2048,
			CacheTTL:            15 * time.Minute,
			MaxPageWalk:         5,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      2 * time.Minute,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Preferences: PreferencesConfig{
			Path:     "/data/preferences",
			InMemory: false,
		},
		Recommend: engine,
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

func recommendDefaults() RecommendConfig {
	return RecommendConfig{
		Seed:              42,
		MixRatio:          0.65,
		MaxQueries:        6,
		HistoryWindow:     20,
		ShortSurvivalRate: 0.3,
		ResultLimit:       30,
		MaxLimit:          100,
		FetchConcurrency:  8,
		ExcludeWatched:    true,
		RequestTimeout:    10 * time.Second,
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// YOUTUBE_API_KEY -> youtube.api_key, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// YouTube Data API
	"youtube_api_key":               "youtube.api_key",
	"youtube_endpoint":              "youtube.endpoint",
	"youtube_region_code":           "youtube.region_code",
	"youtube_max_results":           "youtube.max_results",
	"youtube_timeout":               "youtube.timeout",
	"youtube_rate_limit_rps":        "youtube.rate_limit_rps",
	"youtube_rate_limit_burst":      "youtube.rate_limit_burst",
	"youtube_cache_size":            "youtube.cache_size",
	"youtube_cache_ttl":             "youtube.cache_ttl",
	"youtube_max_page_walk":         "youtube.max_page_walk",
	"youtube_breaker_max_requests":  "youtube.breaker_max_requests",
	"youtube_breaker_interval":      "youtube.breaker_interval",
	"youtube_breaker_timeout":       "youtube.breaker_timeout",
	"youtube_breaker_min_requests":  "youtube.breaker_min_requests",
	"youtube_breaker_failure_ratio": "youtube.breaker_failure_ratio",

	// Preference store
	"preferences_path":      "preferences.path",
	"preferences_in_memory": "preferences.in_memory",

	// Recommendation engine
	"recommend_seed":                "recommend.seed",
	"recommend_mix_ratio":           "recommend.mix_ratio",
	"recommend_max_queries":         "recommend.max_queries",
	"recommend_history_window":      "recommend.history_window",
	"recommend_short_survival_rate": "recommend.short_survival_rate",
	"recommend_result_limit":        "recommend.result_limit",
	"recommend_max_limit":           "recommend.max_limit",
	"recommend_fetch_concurrency":   "recommend.fetch_concurrency",
	"recommend_exclude_watched":     "recommend.exclude_watched",
	"recommend_request_timeout":     "recommend.request_timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return "" so unrelated environment variables are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// ConfigFilePath returns the config file LoadWithKoanf would read, or "".
func ConfigFilePath() string {
	return findConfigFile()
}

// WatchConfigFile calls callback whenever the file at path changes.
// Callers reload with LoadWithKoanf and guard their own state.
//
//	err := config.WatchConfigFile(path, func() {
//	    newCfg, err := config.LoadWithKoanf()
//	    if err != nil {
//	        logger.Warn().Err(err).Msg("Config reload failed")
//	        return
//	    }
//	    logging.SetLevelString(newCfg.Logging.Level)
//	})
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
