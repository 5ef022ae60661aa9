// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

/*
Package config provides layered configuration loading for Tubemix.

# Configuration Sources

LoadWithKoanf merges three layers, later layers winning:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: CONFIG_PATH, then config.yaml/config.yml in the
    working directory, then /etc/tubemix/config.yaml
  - Mapped environment variables (see envMappings)

Comma-separated environment values for slice fields such as CORS_ORIGINS
are split before unmarshalling.

# Configuration Structure

  - ServerConfig: HTTP listen address and timeouts
  - LoggingConfig: zerolog level, format, caller
  - YouTubeConfig: Data API key, limiter, cache and circuit breaker
  - PreferencesConfig: BadgerDB location or in-memory mode
  - RecommendConfig: operator-facing engine knobs
  - SecurityConfig: CORS origins and per-IP rate limiting

Config.RecommendConfig converts the recommend section into the engine's
recommend.Config, starting from recommend.DefaultConfig so unexposed
scoring constants keep their defaults.

# Example YAML

	server:
	  port: 8420
	youtube:
	  api_key: AIza...
	  region_code: GB
	recommend:
	  mix_ratio: 0.7
	  short_survival_rate: 0.5
	security:
	  cors_origins: ["https://tubemix.example.com"]

# Hot Reload

WatchConfigFile invokes a callback when the config file changes. The server
uses it to apply a new log level without a restart.
*/
package config
