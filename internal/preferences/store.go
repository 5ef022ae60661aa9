// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package preferences

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tubemix/internal/events"
	"github.com/tomtom215/tubemix/internal/logging"
	"github.com/tomtom215/tubemix/internal/metrics"
	"github.com/tomtom215/tubemix/internal/models"
	"github.com/tomtom215/tubemix/internal/recommend"
	"github.com/tomtom215/tubemix/internal/validation"
)

// Stored fields. Each is one JSON value under keyPrefix+field.
const (
	FieldGenres        = "genres"
	FieldChannels      = "channels"
	FieldNGKeywords    = "ng_keywords"
	FieldDurations     = "durations"
	FieldFreshness     = "freshness"
	FieldDiscoveryMode = "discovery_mode"
	FieldContext       = "context"
)

// Fields lists every stored field in write order.
var Fields = []string{
	FieldGenres, FieldChannels, FieldNGKeywords, FieldDurations,
	FieldFreshness, FieldDiscoveryMode, FieldContext,
}

const keyPrefix = "pref:"

// Publisher publishes change events. *events.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Store persists the user's explicit preferences field by field.
// Reads never fail: a missing, unreadable or undecodable value yields
// the field's default.
type Store struct {
	kv        KV
	publisher Publisher
	logger    zerolog.Logger
	now       func() time.Time

	// mu keeps Load from observing a half-written Save.
	mu sync.RWMutex
}

// NewStore creates a store. publisher may be nil.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewStore(kv KV, publisher Publisher, logger zerolog.Logger) *Store {
	return &Store{
		kv:        kv,
		publisher: publisher,
		logger:    logger.With().Str("component", "preferences").Logger(),
		now:       time.Now,
	}
}

// getField decodes field into a T, returning def when absent or broken.
func getField[T any](ctx context.Context, s *Store, field string, def T) T {
	raw, err := s.kv.Get(ctx, keyPrefix+field)
	if errors.Is(err, ErrNotFound) {
		metrics.RecordStoreOperation("get", nil)
		s.logger.Debug().Str("field", field).Msg("Preference not set, using default")
		return def
	}
	if err != nil {
		metrics.RecordStoreOperation("get", err)
		s.logger.Warn().Err(err).Str("field", field).Msg("Preference read failed, using default")
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		metrics.RecordStoreOperation("get", err)
		s.logger.Warn().Err(err).Str("field", field).Msg("Preference value corrupt, using default")
		return def
	}
	metrics.RecordStoreOperation("get", nil)
	return v
}

func (s *Store) setField(ctx context.Context, field string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", field, err)
	}
	err = s.kv.Set(ctx, keyPrefix+field, data)
	metrics.RecordStoreOperation("set", err)
	if err != nil {
		return fmt.Errorf("store %s: %w", field, err)
	}
	return nil
}

// Genres returns the preferred genres.
func (s *Store) Genres(ctx context.Context) []string {
	return getField[[]string](ctx, s, FieldGenres, nil)
}

// SetGenres stores the preferred genres.
func (s *Store) SetGenres(ctx context.Context, v []string) error {
	return s.setField(ctx, FieldGenres, v)
}

// Channels returns the preferred channel-name substrings.
func (s *Store) Channels(ctx context.Context) []string {
	return getField[[]string](ctx, s, FieldChannels, nil)
}

// SetChannels stores the preferred channel-name substrings.
func (s *Store) SetChannels(ctx context.Context, v []string) error {
	return s.setField(ctx, FieldChannels, v)
}

// NGKeywords returns the exclusion keywords.
func (s *Store) NGKeywords(ctx context.Context) []string {
	return getField[[]string](ctx, s, FieldNGKeywords, nil)
}

// SetNGKeywords stores the exclusion keywords.
func (s *Store) SetNGKeywords(ctx context.Context, v []string) error {
	return s.setField(ctx, FieldNGKeywords, v)
}

// Durations returns the preferred duration buckets.
func (s *Store) Durations(ctx context.Context) []recommend.DurationBucket {
	return getField[[]recommend.DurationBucket](ctx, s, FieldDurations, nil)
}

// SetDurations stores the preferred duration buckets.
func (s *Store) SetDurations(ctx context.Context, v []recommend.DurationBucket) error {
	return s.setField(ctx, FieldDurations, v)
}

// Freshness returns the freshness preference.
func (s *Store) Freshness(ctx context.Context) recommend.Freshness {
	return getField(ctx, s, FieldFreshness, recommend.FreshnessAny)
}

// SetFreshness stores the freshness preference.
func (s *Store) SetFreshness(ctx context.Context, v recommend.Freshness) error {
	return s.setField(ctx, FieldFreshness, v)
}

// DiscoveryMode returns the discovery mode.
func (s *Store) DiscoveryMode(ctx context.Context) recommend.DiscoveryMode {
	return getField(ctx, s, FieldDiscoveryMode, recommend.ModeBalanced)
}

// SetDiscoveryMode stores the discovery mode.
func (s *Store) SetDiscoveryMode(ctx context.Context, v recommend.DiscoveryMode) error {
	return s.setField(ctx, FieldDiscoveryMode, v)
}

// Context returns the content-style preferences.
func (s *Store) Context(ctx context.Context) recommend.ContextPreferences {
	return getField(ctx, s, FieldContext, recommend.DefaultPreferences().Context)
}

// SetContext stores the content-style preferences.
func (s *Store) SetContext(ctx context.Context, v recommend.ContextPreferences) error {
	return s.setField(ctx, FieldContext, v)
}

// Load assembles the stored snapshot.
func (s *Store) Load(ctx context.Context) recommend.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return recommend.Preferences{
		Genres:        s.Genres(ctx),
		Channels:      s.Channels(ctx),
		NGKeywords:    s.NGKeywords(ctx),
		Durations:     s.Durations(ctx),
		Freshness:     s.Freshness(ctx),
		DiscoveryMode: s.DiscoveryMode(ctx),
		Context:       s.Context(ctx),
	}
}

// Save validates prefs, writes every field and publishes
// preferences.updated. A publish failure is logged, not returned, since
// the snapshot is already stored.
//
//nolint:gocritic // hugeParam: preferences are a value snapshot
func (s *Store) Save(ctx context.Context, prefs recommend.Preferences) error {
	if verr := validation.ValidatePreferences(&prefs); verr != nil {
		return verr
	}

	s.mu.Lock()
	err := s.writeAll(ctx, &prefs)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(ctx, &prefs)
	return nil
}

// writeAll stores every field of p in one batch so a failed save leaves
// the previous snapshot intact.
func (s *Store) writeAll(ctx context.Context, p *recommend.Preferences) error {
	values := map[string]any{
		FieldGenres:        p.Genres,
		FieldChannels:      p.Channels,
		FieldNGKeywords:    p.NGKeywords,
		FieldDurations:     p.Durations,
		FieldFreshness:     p.Freshness,
		FieldDiscoveryMode: p.Mode(),
		FieldContext:       p.Context,
	}

	entries := make(map[string][]byte, len(Fields))
	for _, field := range Fields {
		data, err := json.Marshal(values[field])
		if err != nil {
			return fmt.Errorf("marshal %s: %w", field, err)
		}
		entries[keyPrefix+field] = data
	}

	err := s.kv.SetMany(ctx, entries)
	metrics.RecordStoreOperation("save", err)
	if err != nil {
		return fmt.Errorf("store preferences: %w", err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, p *recommend.Preferences) {
	if s.publisher == nil {
		return
	}
	evt := models.PreferencesUpdatedEvent{
		EventID:   uuid.New().String(),
		RequestID: logging.RequestIDFromContext(ctx),
		Fields:    Fields,
		Genres:    len(p.Genres),
		Channels:  len(p.Channels),
		NGWords:   len(p.NGKeywords),
		Mode:      string(p.Mode()),
		Timestamp: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicPreferencesUpdated, evt); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish preferences update")
	}
}

// Close closes the underlying KV.
func (s *Store) Close() error {
	return s.kv.Close()
}
