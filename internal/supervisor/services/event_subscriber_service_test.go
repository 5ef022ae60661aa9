// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/tubemix/internal/events"
)

type stubConsumer struct {
	err      error
	blocking bool
}

func (s *stubConsumer) Run(ctx context.Context) error {
	if s.blocking {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

func (s *stubConsumer) Topic() string { return "topic.test" }

var _ suture.Service = (*EventSubscriberService)(nil)

func TestEventSubscriberService_Serve(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantNil bool
	}{
		{name: "clean exit", wantNil: true},
		{name: "bus closed is permanent", err: fmt.Errorf("run: %w", events.ErrClosed), wantIs: suture.ErrDoNotRestart},
		{name: "other failure restarts", err: boom, wantIs: boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := NewEventSubscriberService(&stubConsumer{err: tt.err}).Serve(context.Background())
			if tt.wantNil {
				if err != nil {
					t.Errorf("Serve() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("Serve() = %v, want %v", err, tt.wantIs)
			}
		})
	}
}

func TestEventSubscriberService_Cancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	svc := NewEventSubscriberService(&stubConsumer{blocking: true})

	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return")
	}
	if got := svc.String(); got != "event-subscriber:topic.test" {
		t.Errorf("String() = %q", got)
	}
}

func TestEventSubscriberService_RealSubscriber(t *testing.T) {
	t.Parallel()

	bus := events.NewBus(0, zerolog.Nop())
	defer bus.Close()

	handled := make(chan struct{}, 1)
	sub, err := events.NewSubscriber(bus, events.TopicPreferencesUpdated, func(context.Context, *message.Message) error {
		select {
		case handled <- struct{}{}:
		default:
		}
		return nil
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSubscriber() error = %v", err)
	}

	sup := suture.New("test-events", suture.Spec{Timeout: time.Second})
	sup.Add(NewEventSubscriberService(sub))

	ctx, cancel := context.WithCancel(context.Background())
	done := sup.ServeBackground(ctx)
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.After(3 * time.Second)
	for {
		if err := bus.Publish(context.Background(), events.TopicPreferencesUpdated, map[string]int{"n": 1}); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		select {
		case <-handled:
			return
		case <-deadline:
			t.Fatal("subscriber never received an event")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
