// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

// Package logging provides centralized zerolog-based structured logging.
//
// JSON output is the default; console output is available for local
// development. Components derive child loggers with WithComponent, and
// HTTP handlers use Ctx to pick up the request ID placed in the context by
// the API middleware.
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logger := logging.WithComponent("recommend")
//	logger.Info().Int("videos", n).Msg("Recommendations served")
//
// SlogHandler adapts zerolog to log/slog for libraries that only accept an
// *slog.Logger, such as the suture event hook.
package logging
