// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestOrchestrator_AllSettled(t *testing.T) {
	t.Parallel()

	src := &mockSource{}
	obs := &countingObserver{}
	o := NewOrchestrator(src, 4, zerolog.Nop(), obs)

	tasks := []Task{
		{Kind: FetchSearch, Key: "ok", Run: func(context.Context) ([]Video, error) { return videos("a", "b"), nil }},
		{Kind: FetchSearch, Key: "err", Run: func(context.Context) ([]Video, error) { return videos("x"), errors.New("boom") }},
		{Kind: FetchSearch, Key: "panic", Run: func(context.Context) ([]Video, error) { panic("bad") }},
		{Kind: FetchChannel, Key: "ok2", Run: func(context.Context) ([]Video, error) { return videos("c"), nil }},
	}

	got := o.Run(context.Background(), tasks)
	if len(got) != len(tasks) {
		t.Fatalf("len(results) = %d, want %d", len(got), len(tasks))
	}

	want := [][]string{{"a", "b"}, {}, {}, {"c"}}
	for i := range want {
		if g := ids(got[i]); !reflect.DeepEqual(g, want[i]) {
			t.Errorf("results[%d] = %v, want %v", i, g, want[i])
		}
	}

	if obs.fetches != 4 || obs.failures != 2 {
		t.Errorf("observer fetches=%d failures=%d, want 4 and 2", obs.fetches, obs.failures)
	}
}

func TestOrchestrator_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	src := &mockSource{searchAll: videos("a"), delay: 10 * time.Millisecond}
	o := NewOrchestrator(src, 2, zerolog.Nop(), nil)

	tasks := make([]Task, 8)
	for i := range tasks {
		tasks[i] = o.Search("q", 0)
	}
	o.Run(context.Background(), tasks)

	if src.maxFlight > 2 {
		t.Errorf("max in-flight = %d, want <= 2", src.maxFlight)
	}
	if len(src.searched()) != 8 {
		t.Errorf("searches = %d, want 8", len(src.searched()))
	}
}

func TestOrchestrator_CanceledContext(t *testing.T) {
	t.Parallel()

	src := &mockSource{searchAll: videos("a")}
	o := NewOrchestrator(src, 2, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := o.Run(ctx, []Task{o.Search("q", 0)})
	if len(got[0]) != 0 {
		t.Errorf("canceled run returned %v, want empty", ids(got[0]))
	}
	if len(src.searched()) != 0 {
		t.Error("source called after cancellation")
	}
}

func TestOrchestrator_FetchPlan(t *testing.T) {
	t.Parallel()

	src := &mockSource{
		search:   map[string][]Video{"jazz": videos("j1"), "piano": videos("p1")},
		channels: map[string][]Video{"UC1": videos("c1")},
	}
	o := NewOrchestrator(src, 8, zerolog.Nop(), nil)

	plan := Plan{
		Queries:    []Query{{Text: "jazz"}, {Text: "piano"}},
		ChannelIDs: []string{"UC1"},
	}
	got := o.FetchPlan(context.Background(), &plan)

	want := [][]string{{"j1"}, {"p1"}, {"c1"}}
	for i := range want {
		if g := ids(got[i]); !reflect.DeepEqual(g, want[i]) {
			t.Errorf("results[%d] = %v, want %v", i, g, want[i])
		}
	}
}

func TestOrchestrator_RelatedError(t *testing.T) {
	t.Parallel()

	src := &mockSource{detailsErr: errSourceDown}
	o := NewOrchestrator(src, 1, zerolog.Nop(), nil)

	got := o.Run(context.Background(), []Task{o.Related("v1")})
	if len(got[0]) != 0 {
		t.Errorf("Related() on error = %v, want empty", ids(got[0]))
	}
}
