// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) PruneCaches() int {
	p.calls.Add(1)
	return 2
}

var _ suture.Service = (*CachePruneService)(nil)

func TestCachePruneService_PrunesUntilCanceled(t *testing.T) {
	t.Parallel()

	pruner := &countingPruner{}
	svc := NewCachePruneService(pruner, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for pruner.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("PruneCaches called %d times, want >= 2", pruner.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestNewCachePruneService_DefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewCachePruneService(&countingPruner{}, 0, zerolog.Nop())
	if svc.interval != DefaultPruneInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultPruneInterval)
	}
	if svc.String() != "cache-prune" {
		t.Errorf("String() = %q", svc.String())
	}
}
