// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/tubemix/internal/events"
)

// EventConsumer is satisfied by *events.Subscriber.
type EventConsumer interface {
	Run(ctx context.Context) error
	Topic() string
}

// EventSubscriberService supervises one event consumer. A consumer that
// returns because the bus was closed is not restarted.
type EventSubscriberService struct {
	consumer EventConsumer
}

// NewEventSubscriberService wraps consumer.
func NewEventSubscriberService(consumer EventConsumer) *EventSubscriberService {
	return &EventSubscriberService{consumer: consumer}
}

// Serve implements suture.Service.
func (s *EventSubscriberService) Serve(ctx context.Context) error {
	err := s.consumer.Run(ctx)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, events.ErrClosed):
		return suture.ErrDoNotRestart
	default:
		return fmt.Errorf("event subscriber %s: %w", s.consumer.Topic(), err)
	}
}

// String identifies the service in supervisor events.
func (s *EventSubscriberService) String() string {
	return "event-subscriber:" + s.consumer.Topic()
}
