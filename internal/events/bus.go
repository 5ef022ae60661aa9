// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tubemix/internal/logging"
	"github.com/tomtom215/tubemix/internal/metrics"
)

// TopicPreferencesUpdated carries models.PreferencesUpdatedEvent payloads.
const TopicPreferencesUpdated = "preferences.updated"

// MetadataRequestID is the message metadata key for the originating request.
const MetadataRequestID = "request_id"

// DefaultBufferSize is the per-subscriber output channel buffer.
const DefaultBufferSize = 64

// ErrClosed is returned when publishing or subscribing on a closed bus.
var ErrClosed = errors.New("events: bus closed")

// Bus is an in-process publish/subscribe bus on a watermill GoChannel.
// Messages published while nobody is subscribed are dropped.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
	closed atomic.Bool
}

// NewBus creates a bus. bufferSize <= 0 uses DefaultBufferSize.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewBus(bufferSize int64, logger zerolog.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	logger = logger.With().Str("component", "events").Logger()

	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: bufferSize},
		watermill.NewSlogLogger(logging.NewSlogLogger(logger)),
	)
	return &Bus{pubsub: pubsub, logger: logger}
}

// Publish marshals payload as JSON and publishes it on topic. The request
// ID in ctx, if any, travels in the message metadata.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	if b.closed.Load() {
		return ErrClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordPreferenceEvent("published", err)
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataRequestID, id)
	}

	err = b.pubsub.Publish(topic, msg)
	metrics.RecordPreferenceEvent("published", err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	b.logger.Debug().Str("topic", topic).Str("message_id", msg.UUID).Msg("Event published")
	return nil
}

// Subscribe returns the message channel for topic. It is closed when ctx
// is canceled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return ch, nil
}

// Close closes the bus and every subscription.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.pubsub.Close()
}
