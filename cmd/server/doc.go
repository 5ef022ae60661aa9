// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

/*
Package main is the entry point for the tubemix server.

Tubemix builds personalized video feeds from a caller's watch history,
searches and subscriptions, blended with stored preferences, using the
YouTube Data API as its catalog.

# Application Architecture

	RootSupervisor ("tubemix")
	├── EventsSupervisor ("events-layer")
	│   └── preferences.updated audit subscriber
	└── APISupervisor ("api-layer")
	    ├── HTTP Server (chi)
	    └── YouTube cache pruning

Initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Preference store: BadgerDB on disk or in memory
 4. Event bus: watermill gochannel
 5. YouTube client: rate limited, cached, behind a circuit breaker
 6. Recommendation engine
 7. HTTP router
 8. Supervisor tree
 9. Serve until SIGINT or SIGTERM

# Configuration

Priority: environment variables > config file > defaults.

	YOUTUBE_API_KEY=<key>        # required unless YOUTUBE_ENDPOINT is set
	HTTP_PORT=8420
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	PREFERENCES_PATH=/data/preferences
	PREFERENCES_IN_MEMORY=false
	RECOMMEND_MIX_RATIO=0.65
	CORS_ORIGINS=https://app.example.com

When a config file is in use, LOG_LEVEL changes in that file are applied
without a restart.

# Endpoints

	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	POST /api/v1/recommendations?pipeline=strict|mixed|fallback&limit=N
	GET  /api/v1/preferences
	PUT  /api/v1/preferences
	GET  /metrics
*/
package main
