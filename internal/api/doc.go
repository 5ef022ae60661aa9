// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

/*
Package api provides the HTTP surface of the recommendation service,
routed with Chi.

Endpoints:

	GET  /api/v1/health/live       liveness
	GET  /api/v1/health/ready      readiness (503 while the upstream breaker is open)
	POST /api/v1/recommendations   run a pipeline (?pipeline=strict|mixed|fallback&limit=N)
	GET  /api/v1/preferences       stored preference snapshot
	PUT  /api/v1/preferences       validate and replace the snapshot
	GET  /metrics                  Prometheus exposition

Every JSON response uses the models.APIResponse envelope with status,
data, metadata and error.

Middleware stack (global): request ID with request-scoped logger, RealIP,
access log, panic recovery, CORS. API routes add per-IP rate limiting
(go-chi/httprate), security headers and Prometheus instrumentation.

Example:

	handler := api.NewHandler(api.HandlerConfig{Engine: engine, Preferences: store})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromSecurity(cfg.Security), logger)
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
