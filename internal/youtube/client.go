// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/tomtom215/tubemix/internal/cache"
	"github.com/tomtom215/tubemix/internal/config"
	"github.com/tomtom215/tubemix/internal/metrics"
	"github.com/tomtom215/tubemix/internal/recommend"
)

// BreakerName labels the Data API circuit breaker in logs and metrics.
const BreakerName = "youtube-api"

var (
	// ErrCircuitOpen is returned while the circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("youtube: circuit breaker open")

	// ErrNotFound is returned when a video or channel does not exist.
	ErrNotFound = errors.New("youtube: not found")
)

// Client is a recommend.VideoSource backed by the YouTube Data API v3.
//
// Every API call waits on the outbound rate limiter, then runs through the
// circuit breaker with a per-call timeout. Video details, uploads playlist
// IDs and search page tokens are cached.
//
// DETERMINISM NOTE: the breaker uses wall-clock time for its interval and
// timeout. Tests exercise the client against an httptest server and trip
// the breaker through request counts, not time.
type Client struct {
	svc     *yt.Service
	cfg     config.YouTubeConfig
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger
	now     func() time.Time

	details *cache.LRU[string, *recommend.VideoDetails]
	uploads *cache.LRU[string, string]
	pages   *cache.LRU[pageKey, string]
}

var _ recommend.VideoSource = (*Client)(nil)

// pageKey identifies the token for one page of one search query.
type pageKey struct {
	query string
	page  int
}

// NewClient creates a Data API client. Extra options are appended after
// the ones derived from cfg, so callers can inject an HTTP client.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewClient(ctx context.Context, cfg *config.YouTubeConfig, logger zerolog.Logger, opts ...option.ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("youtube config is required")
	}

	var base []option.ClientOption
	if cfg.APIKey != "" {
		base = append(base, option.WithAPIKey(cfg.APIKey))
	} else {
		base = append(base, option.WithoutAuthentication())
	}
	if cfg.Endpoint != "" {
		base = append(base, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := yt.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	c := &Client{
		svc:     svc,
		cfg:     *cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		logger:  logger.With().Str("component", "youtube").Logger(),
		now:     time.Now,
		details: cache.NewLRU[string, *recommend.VideoDetails](cfg.CacheSize, cfg.CacheTTL),
		uploads: cache.NewLRU[string, string](cfg.CacheSize, cfg.CacheTTL),
		pages:   cache.NewLRU[pageKey, string](cfg.CacheSize, cfg.CacheTTL),
	}
	c.cb = c.newBreaker()

	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)
	return c, nil
}

func (c *Client) newBreaker() *gobreaker.CircuitBreaker[any] {
	minRequests := c.cfg.BreakerMinRequests
	ratio := c.cfg.BreakerFailureRatio

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: c.cfg.BreakerMaxRequests,
		Interval:    c.cfg.BreakerInterval,
		Timeout:     c.cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= ratio {
				c.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state transition")
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},

		IsSuccessful: isBreakerSuccess,
	})
}

// isBreakerSuccess keeps caller cancellations and client-side request
// errors from tripping the breaker. Quota (403) and rate (429) errors count.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 403, gerr.Code == 429:
			return false
		case gerr.Code >= 400 && gerr.Code < 500:
			return true
		}
	}
	return false
}

// BreakerState returns the circuit breaker state name.
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}

// PruneCaches drops expired entries from every cache, publishes the
// remaining sizes and returns how many entries were removed.
func (c *Client) PruneCaches() int {
	removed := c.details.CleanupExpired() + c.uploads.CleanupExpired() + c.pages.CleanupExpired()

	metrics.RecordCacheSize("video_details", c.details.Len())
	metrics.RecordCacheSize("uploads_playlist", c.uploads.Len())
	metrics.RecordCacheSize("page_token", c.pages.Len())
	return removed
}

// call runs fn behind the rate limiter and circuit breaker with the
// configured per-call timeout.
func call[T any](ctx context.Context, c *Client, endpoint string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	start := c.now()
	if err := c.limiter.Wait(ctx); err != nil {
		return zero, fmt.Errorf("rate limiter: %w", err)
	}
	metrics.RecordRateLimitWait(c.now().Sub(start))

	result, err := c.cb.Execute(func() (any, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
		return fn(callCtx)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordBreakerRequest(BreakerName, "rejected")
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Request rejected by circuit breaker")
		return zero, fmt.Errorf("%w: %s", ErrCircuitOpen, endpoint)
	}

	metrics.RecordYouTubeCall(endpoint, err)
	if err != nil {
		metrics.RecordBreakerRequest(BreakerName, "failure")
		return zero, fmt.Errorf("youtube %s: %w", endpoint, err)
	}
	metrics.RecordBreakerRequest(BreakerName, "success")

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("youtube %s: unexpected result type %T", endpoint, result)
	}
	return typed, nil
}
