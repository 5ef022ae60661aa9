// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// TestDefaultConfig verifies that defaults are sensible
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8420 {
		t.Errorf("Server.Port = %d, want 8420", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.YouTube.MaxResults != 25 {
		t.Errorf("YouTube.MaxResults = %d, want 25", cfg.YouTube.MaxResults)
	}
	if cfg.YouTube.BreakerMinRequests != 10 || cfg.YouTube.BreakerFailureRatio != 0.6 {
		t.Errorf("breaker = %d/%v, want 10/0.6", cfg.YouTube.BreakerMinRequests, cfg.YouTube.BreakerFailureRatio)
	}
	if cfg.Recommend.MixRatio != 0.65 {
		t.Errorf("Recommend.MixRatio = %v, want 0.65", cfg.Recommend.MixRatio)
	}
	if cfg.Recommend.ShortSurvivalRate != 0.3 {
		t.Errorf("Recommend.ShortSurvivalRate = %v, want 0.3", cfg.Recommend.ShortSurvivalRate)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"*"}) {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	// Defaults alone lack an API key
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() on defaults should require YOUTUBE_API_KEY")
	}

	cfg.YouTube.APIKey = "AIzaSyTestKey"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with API key error = %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"http_port", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"YOUTUBE_API_KEY", "youtube.api_key"},
		{"YOUTUBE_BREAKER_FAILURE_RATIO", "youtube.breaker_failure_ratio"},
		{"PREFERENCES_IN_MEMORY", "preferences.in_memory"},
		{"RECOMMEND_MIX_RATIO", "recommend.mix_ratio"},
		{"RECOMMEND_SHORT_SURVIVAL_RATE", "recommend.short_survival_rate"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// Every mapped path must name a field LoadWithKoanf can unmarshal.
func TestEnvMappingsTargetKnownPaths(t *testing.T) {
	t.Parallel()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	for env, path := range envMappings {
		if !k.Exists(path) {
			t.Errorf("envMappings[%q] = %q, not a known config path", env, path)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("server: {}"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("server: {}"), 0o600); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
		if result := ConfigFilePath(); result != customPath {
			t.Errorf("ConfigFilePath() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH with non-existent file falls back", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("YOUTUBE_API_KEY", "AIzaSyTestKey")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_MIX_RATIO", "0.8")
	t.Setenv("YOUTUBE_CACHE_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.YouTube.APIKey != "AIzaSyTestKey" {
		t.Errorf("YouTube.APIKey = %q, want AIzaSyTestKey", cfg.YouTube.APIKey)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.MixRatio != 0.8 {
		t.Errorf("Recommend.MixRatio = %v, want 0.8", cfg.Recommend.MixRatio)
	}
	if cfg.YouTube.CacheTTL != 5*time.Minute {
		t.Errorf("YouTube.CacheTTL = %v, want 5m", cfg.YouTube.CacheTTL)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}

	// Defaults survive for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Recommend.HistoryWindow != 20 {
		t.Errorf("Recommend.HistoryWindow = %d, want 20 (default)", cfg.Recommend.HistoryWindow)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8500
youtube:
  api_key: AIzaSyFileKey
  region_code: GB
preferences:
  in_memory: true
recommend:
  short_survival_rate: 0.5
  max_queries: 4
`)
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8500 {
		t.Errorf("Server.Port = %d, want 8500", cfg.Server.Port)
	}
	if cfg.YouTube.RegionCode != "GB" {
		t.Errorf("YouTube.RegionCode = %q, want GB", cfg.YouTube.RegionCode)
	}
	if !cfg.Preferences.InMemory {
		t.Error("Preferences.InMemory = false, want true")
	}
	if cfg.Recommend.ShortSurvivalRate != 0.5 {
		t.Errorf("Recommend.ShortSurvivalRate = %v, want 0.5", cfg.Recommend.ShortSurvivalRate)
	}
	if got := cfg.RecommendConfig().Planner.MaxQueries; got != 4 {
		t.Errorf("RecommendConfig().Planner.MaxQueries = %d, want 4", got)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8500
youtube:
  api_key: AIzaSyFileKey
`)
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "8600")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8600 {
		t.Errorf("Server.Port = %d, want 8600 (env over file)", cfg.Server.Port)
	}
	if cfg.YouTube.APIKey != "AIzaSyFileKey" {
		t.Errorf("YouTube.APIKey = %q, want AIzaSyFileKey", cfg.YouTube.APIKey)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing api key",
			env:     map[string]string{},
			wantErr: "YOUTUBE_API_KEY is required",
		},
		{
			name:    "bad port",
			env:     map[string]string{"YOUTUBE_API_KEY": "AIzaSyKey", "HTTP_PORT": "70000"},
			wantErr: "HTTP_PORT",
		},
		{
			name:    "bad log level",
			env:     map[string]string{"YOUTUBE_API_KEY": "AIzaSyKey", "LOG_LEVEL": "loud"},
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "engine rule",
			env:     map[string]string{"YOUTUBE_API_KEY": "AIzaSyKey", "RECOMMEND_MIX_RATIO": "1.5"},
			wantErr: "recommend:",
		},
		{
			name:    "placeholder key",
			env:     map[string]string{"YOUTUBE_API_KEY": "CHANGEME"},
			wantErr: "placeholder",
		},
		{
			name: "endpoint without key",
			env:  map[string]string{"YOUTUBE_ENDPOINT": "http://127.0.0.1:9999/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(ConfigPathEnvVar, "")
			t.Setenv("YOUTUBE_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("LoadWithKoanf() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadWithKoanf() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestProcessSliceFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value interface{}
		want  interface{}
	}{
		{"comma separated", "https://a.io, https://b.io", []string{"https://a.io", "https://b.io"}},
		{"single", "*", []string{"*"}},
		{"already slice", []string{"x"}, []string{"x"}},
		{"only commas", " , ", " , "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			k := koanf.New(".")
			if err := k.Set("security.cors_origins", tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := processSliceFields(k); err != nil {
				t.Fatalf("processSliceFields() error = %v", err)
			}
			if got := k.Get("security.cors_origins"); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("cors_origins = %#v, want %#v", got, tt.want)
			}
		})
	}
}
