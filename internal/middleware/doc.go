// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

/*
Package middleware provides HTTP middleware shared by the API router.

Components:

  - RequestID: X-Request-ID propagation plus a request-scoped zerolog
    logger in the context (see logging.LoggerFromContext)
  - AccessLog: one structured log line per request
  - PrometheusMetrics: tubemix_api_* request instrumentation, labelled by
    chi route pattern so unmatched paths collapse to "unmatched"

All three use the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
