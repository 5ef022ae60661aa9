// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

/*
Package supervisor runs the long-lived parts of tubemix under suture v4.

The tree has two layers so an event consumer crash never takes the API
down with it:

	RootSupervisor ("tubemix")
	├── EventsSupervisor ("events-layer")
	│   └── EventSubscriberService (preferences.updated audit)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (start, stop, failure, backoff) are logged through
sutureslog, fed by the zerolog slog adapter in internal/logging.

# Usage

	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddEventsService(services.NewEventSubscriberService(sub))
	tree.AddAPIService(services.NewHTTPServerService(server, timeout, logger))
	return tree.Serve(ctx)

# Restart Policy

A service that returns an error is restarted. Failures decay over
FailureDecay seconds; once the count passes FailureThreshold the layer
waits FailureBackoff before the next restart. Returning
suture.ErrDoNotRestart ends a service for good.

The preference store and the YouTube client are libraries, not services,
and are not supervised. The client carries its own circuit breaker.
*/
package supervisor
