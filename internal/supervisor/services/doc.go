// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

/*
Package services adapts long-running components to suture.Service.

  - HTTPServerService runs an *http.Server and drains it on cancel.
  - EventSubscriberService runs an events.Subscriber. It stops for good
    once the bus is closed.
  - CachePruneService drops expired YouTube cache entries on a ticker.

Each wrapper implements fmt.Stringer so supervisor events name it.
*/
package services
