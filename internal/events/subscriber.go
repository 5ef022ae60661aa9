// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package events

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tubemix/internal/metrics"
	"github.com/tomtom215/tubemix/internal/models"
)

// HandlerFunc processes one message. Returned errors are logged and
// counted; the message is acked either way since the in-process bus has
// no dead-letter queue and a nack would redeliver forever.
type HandlerFunc func(ctx context.Context, msg *message.Message) error

// Subscriber consumes one topic from a Bus until its context ends.
type Subscriber struct {
	bus     *Bus
	topic   string
	handler HandlerFunc
	logger  zerolog.Logger

	received  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// NewSubscriber creates a subscriber for topic.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewSubscriber(bus *Bus, topic string, handler HandlerFunc, logger zerolog.Logger) (*Subscriber, error) {
	if bus == nil {
		return nil, fmt.Errorf("bus required")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler required")
	}
	return &Subscriber{
		bus:     bus,
		topic:   topic,
		handler: handler,
		logger:  logger.With().Str("component", "events").Str("topic", topic).Logger(),
	}, nil
}

// Topic returns the subscribed topic.
func (s *Subscriber) Topic() string {
	return s.topic
}

// Run subscribes and processes messages until ctx is canceled or the bus
// is closed. It returns ctx.Err() on cancellation.
func (s *Subscriber) Run(ctx context.Context) error {
	messages, err := s.bus.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}
	s.logger.Debug().Msg("Subscriber started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("subscription to %s: %w", s.topic, ErrClosed)
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, msg *message.Message) {
	s.received.Add(1)

	err := s.handler(ctx, msg)
	metrics.RecordPreferenceEvent("consumed", err)
	if err != nil {
		s.failed.Add(1)
		s.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Event handler failed")
	} else {
		s.processed.Add(1)
	}
	msg.Ack()
}

// SubscriberStats holds runtime counters.
type SubscriberStats struct {
	Received  int64
	Processed int64
	Failed    int64
}

// Stats returns the current counters.
func (s *Subscriber) Stats() SubscriberStats {
	return SubscriberStats{
		Received:  s.received.Load(),
		Processed: s.processed.Load(),
		Failed:    s.failed.Load(),
	}
}

// PreferencesAuditHandler logs every saved preference snapshot.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func PreferencesAuditHandler(logger zerolog.Logger) HandlerFunc {
	return func(_ context.Context, msg *message.Message) error {
		var evt models.PreferencesUpdatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", TopicPreferencesUpdated, err)
		}
		logger.Info().
			Str("event_id", evt.EventID).
			Str("request_id", msg.Metadata.Get(MetadataRequestID)).
			Strs("fields", evt.Fields).
			Int("genres", evt.Genres).
			Int("channels", evt.Channels).
			Int("ng_keywords", evt.NGWords).
			Str("discovery_mode", evt.Mode).
			Msg("Preferences updated")
		return nil
	}
}
