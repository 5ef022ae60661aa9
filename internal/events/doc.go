// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

/*
Package events is the in-process event bus.

Bus wraps a Watermill GoChannel pub/sub. Payloads are JSON (goccy/go-json)
and the originating request ID rides in the message metadata under
MetadataRequestID.

Topics:
  - preferences.updated: published by preferences.Store.Save with a
    models.PreferencesUpdatedEvent payload

Subscriber drains one topic and is run under the supervisor tree; see
supervisor/services.EventSubscriberService. Handler failures are logged
and counted in tubemix_preference_events_total, and messages are always
acked.

Example:

	bus := events.NewBus(0, logger)
	sub, _ := events.NewSubscriber(bus, events.TopicPreferencesUpdated,
		events.PreferencesAuditHandler(logger), logger)
	go sub.Run(ctx)
	_ = bus.Publish(ctx, events.TopicPreferencesUpdated, evt)
*/
package events
