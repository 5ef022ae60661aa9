// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/tubemix/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
//
// The service is not ready while the upstream circuit breaker is open:
// every pipeline would degrade to empty or fallback results.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	state := "unknown"
	if h.upstream != nil {
		state = h.upstream.BreakerState()
	}
	requests, fallbacks := h.engine.Stats()

	data := map[string]interface{}{
		"ready":            state != "open",
		"upstream_breaker": state,
		"requests":         requests,
		"fallbacks":        fallbacks,
		"uptime":           time.Since(h.startTime).Seconds(),
	}

	if state == "open" {
		respondJSON(w, r, http.StatusServiceUnavailable, &models.APIResponse{
			Status: "error",
			Data:   data,
			Error: &models.APIError{
				Code:    ErrCodeNotReady,
				Message: "Upstream video API circuit breaker is open",
			},
		})
		return
	}
	respondSuccess(w, r, data)
}
