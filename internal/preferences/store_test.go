// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package preferences

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tubemix/internal/config"
	"github.com/tomtom215/tubemix/internal/events"
	"github.com/tomtom215/tubemix/internal/logging"
	"github.com/tomtom215/tubemix/internal/models"
	"github.com/tomtom215/tubemix/internal/recommend"
	"github.com/tomtom215/tubemix/internal/validation"
)

func openTestKV(t *testing.T) *BadgerKV {
	t.Helper()
	kv, err := OpenBadger(&config.PreferencesConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() }) //nolint:errcheck
	return kv
}

// mockPublisher records published events.
type mockPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, topic string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
	m.events = append(m.events, payload)
	return m.err
}

// failingKV fails every read and optionally every write.
type failingKV struct {
	failSet bool
}

func (f *failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (f *failingKV) Set(context.Context, string, []byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return nil
}

func (f *failingKV) SetMany(context.Context, map[string][]byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return nil
}

func (f *failingKV) Close() error { return nil }

// staticKV returns fixed raw values.
type staticKV map[string][]byte

func (s staticKV) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := s[key]; ok {
		return v, nil
	}
	return nil, ErrNotFound
}
func (s staticKV) Set(_ context.Context, key string, v []byte) error { s[key] = v; return nil }
func (s staticKV) Close() error                                     { return nil }

func (s staticKV) SetMany(_ context.Context, entries map[string][]byte) error {
	for k, v := range entries {
		s[k] = v
	}
	return nil
}

// batchFailKV serves reads from an inner store but rejects batch writes.
type batchFailKV struct {
	KV
	calls int
}

func (b *batchFailKV) SetMany(context.Context, map[string][]byte) error {
	b.calls++
	return errors.New("transaction aborted")
}

func TestBadgerKV_GetSet(t *testing.T) {
	t.Parallel()

	kv := openTestKV(t)
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := kv.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get() = %q, want v2", got)
	}
}

func TestBadgerKV_OnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	kv, err := OpenBadger(&config.PreferencesConfig{Path: dir})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	if err := kv.Set(ctx, "k", []byte("persisted")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	kv, err = OpenBadger(&config.PreferencesConfig{Path: dir})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer kv.Close()
	got, err := kv.Get(ctx, "k")
	if err != nil || string(got) != "persisted" {
		t.Errorf("Get() after reopen = %q, %v; want persisted", got, err)
	}
}

func TestStore_LoadDefaults(t *testing.T) {
	t.Parallel()

	s := NewStore(openTestKV(t), nil, zerolog.Nop())
	got := s.Load(context.Background())
	want := recommend.DefaultPreferences()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want defaults %+v", got, want)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	s := NewStore(openTestKV(t), pub, zerolog.Nop())
	ctx := logging.ContextWithRequestID(context.Background(), "req-42")

	prefs := recommend.DefaultPreferences()
	prefs.Genres = []string{"jazz", "cooking"}
	prefs.Channels = []string{"Bakery"}
	prefs.NGKeywords = []string{"spoiler"}
	prefs.Durations = []recommend.DurationBucket{recommend.DurationShort, recommend.DurationLong}
	prefs.Freshness = recommend.FreshnessNew
	prefs.DiscoveryMode = recommend.ModeDiscovery
	prefs.Context.Region = "japan"

	if err := s.Save(ctx, prefs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := s.Load(ctx); !reflect.DeepEqual(got, prefs) {
		t.Errorf("Load() = %+v, want %+v", got, prefs)
	}

	if len(pub.topics) != 1 || pub.topics[0] != events.TopicPreferencesUpdated {
		t.Fatalf("published topics = %v, want [%s]", pub.topics, events.TopicPreferencesUpdated)
	}
	evt, ok := pub.events[0].(models.PreferencesUpdatedEvent)
	if !ok {
		t.Fatalf("payload type = %T, want models.PreferencesUpdatedEvent", pub.events[0])
	}
	if evt.RequestID != "req-42" || evt.Genres != 2 || evt.NGWords != 1 || evt.Mode != "discovery" {
		t.Errorf("event = %+v", evt)
	}
	if evt.EventID == "" || len(evt.Fields) != len(Fields) {
		t.Errorf("event id/fields = %q/%v", evt.EventID, evt.Fields)
	}
}

func TestStore_TypedAccessors(t *testing.T) {
	t.Parallel()

	s := NewStore(openTestKV(t), nil, zerolog.Nop())
	ctx := context.Background()

	if err := s.SetGenres(ctx, []string{"lofi"}); err != nil {
		t.Fatalf("SetGenres() error = %v", err)
	}
	if err := s.SetDiscoveryMode(ctx, recommend.ModeSubscription); err != nil {
		t.Fatalf("SetDiscoveryMode() error = %v", err)
	}
	if err := s.SetContext(ctx, recommend.ContextPreferences{Vocal: recommend.ContextAny}); err != nil {
		t.Fatalf("SetContext() error = %v", err)
	}

	if got := s.Genres(ctx); !reflect.DeepEqual(got, []string{"lofi"}) {
		t.Errorf("Genres() = %v, want [lofi]", got)
	}
	if got := s.DiscoveryMode(ctx); got != recommend.ModeSubscription {
		t.Errorf("DiscoveryMode() = %q, want subscription", got)
	}
	if got := s.Context(ctx); got.Vocal != recommend.ContextAny || got.Depth != "" {
		t.Errorf("Context() = %+v", got)
	}
	if got := s.Freshness(ctx); got != recommend.FreshnessAny {
		t.Errorf("Freshness() unset = %q, want any", got)
	}
}

func TestStore_SaveValidation(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	s := NewStore(openTestKV(t), pub, zerolog.Nop())

	prefs := recommend.DefaultPreferences()
	prefs.Durations = []recommend.DurationBucket{"forever"}

	err := s.Save(context.Background(), prefs)
	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Save() error = %v, want *validation.RequestValidationError", err)
	}
	if len(pub.topics) != 0 {
		t.Error("invalid preferences should not publish")
	}
	if got := s.Durations(context.Background()); got != nil {
		t.Errorf("Durations() = %v, want nothing stored", got)
	}
}

func TestStore_ReadFailuresFallBack(t *testing.T) {
	t.Parallel()

	s := NewStore(&failingKV{}, nil, zerolog.Nop())
	if got := s.Load(context.Background()); !reflect.DeepEqual(got, recommend.DefaultPreferences()) {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestStore_CorruptValueFallsBack(t *testing.T) {
	t.Parallel()

	kv := staticKV{
		keyPrefix + FieldGenres:    []byte(`{not json`),
		keyPrefix + FieldFreshness: []byte(`"classic"`),
	}
	s := NewStore(kv, nil, zerolog.Nop())
	got := s.Load(context.Background())
	if got.Genres != nil {
		t.Errorf("Genres = %v, want nil", got.Genres)
	}
	if got.Freshness != recommend.FreshnessClassic {
		t.Errorf("Freshness = %q, want classic", got.Freshness)
	}
}

func TestStore_SaveWriteFailure(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	s := NewStore(&failingKV{failSet: true}, pub, zerolog.Nop())
	if err := s.Save(context.Background(), recommend.DefaultPreferences()); err == nil {
		t.Fatal("Save() error = nil, want write error")
	}
	if len(pub.topics) != 0 {
		t.Error("failed save should not publish")
	}
}

func TestStore_SaveFailureKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := openTestKV(t)
	before := recommend.DefaultPreferences()
	before.Genres = []string{"jazz"}
	before.Freshness = recommend.FreshnessClassic
	if err := NewStore(inner, nil, zerolog.Nop()).Save(ctx, before); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	kv := &batchFailKV{KV: inner}
	s := NewStore(kv, nil, zerolog.Nop())
	after := recommend.DefaultPreferences()
	after.Genres = []string{"metal"}
	after.Freshness = recommend.FreshnessNew
	if err := s.Save(ctx, after); err == nil {
		t.Fatal("Save() error = nil, want batch error")
	}
	if kv.calls != 1 {
		t.Errorf("SetMany calls = %d, want 1", kv.calls)
	}
	if got := s.Load(ctx); !reflect.DeepEqual(got, before) {
		t.Errorf("Load() = %+v, want previous snapshot %+v", got, before)
	}
}

func TestBadgerKV_SetMany(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := openTestKV(t)
	if err := kv.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatalf("SetMany() error = %v", err)
	}
	for key, want := range map[string]string{"a": "1", "b": "2"} {
		got, err := kv.Get(ctx, key)
		if err != nil || string(got) != want {
			t.Errorf("Get(%q) = %q, %v, want %q", key, got, err, want)
		}
	}
}

func TestStore_PublishFailureIgnored(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{err: errors.New("bus down")}
	s := NewStore(openTestKV(t), pub, zerolog.Nop())
	if err := s.Save(context.Background(), recommend.DefaultPreferences()); err != nil {
		t.Errorf("Save() error = %v, want nil", err)
	}
}

func TestStore_WithEventBus(t *testing.T) {
	t.Parallel()

	bus := events.NewBus(0, zerolog.Nop())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Subscribe(ctx, events.TopicPreferencesUpdated)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	s := NewStore(openTestKV(t), bus, zerolog.Nop())
	if err := s.Save(ctx, recommend.DefaultPreferences()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	msg := <-ch
	msg.Ack()
	if len(msg.Payload) == 0 {
		t.Error("empty event payload")
	}
}
