// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/tubemix/internal/logging"
	"github.com/tomtom215/tubemix/internal/models"
	"github.com/tomtom215/tubemix/internal/recommend"
	"github.com/tomtom215/tubemix/internal/validation"
)

// Recommendations handles POST /api/v1/recommendations.
//
// Query parameters:
//   - pipeline: strict, mixed (default) or fallback
//   - limit: maximum results; 0 or absent uses the engine default and
//     values above the configured maximum are clamped
//
// The body is a models.RecommendationRequest. An empty body is a request
// with no signal. When the body carries no preferences the stored
// snapshot is used. Pipelines never fail, so every well-formed request
// gets 200, possibly with an empty video list.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	pipeline, err := recommend.ParsePipeline(r.URL.Query().Get("pipeline"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "pipeline must be one of: strict, mixed, fallback", nil)
		return
	}

	limit, ok := parseLimit(r.URL.Query().Get("limit"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "limit must be a non-negative integer", nil)
		return
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}

	var req models.RecommendationRequest
	if err := decodeJSONBody(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}
	if req.Preferences != nil {
		if verr := validation.ValidatePreferences(req.Preferences); verr != nil {
			respondValidationError(w, r, verr)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var stored recommend.Preferences
	if req.Preferences == nil {
		stored = h.prefs.Load(ctx)
	}

	result := h.engine.Recommend(ctx, recommend.Request{
		Source:    req.Source(stored),
		Pipeline:  pipeline,
		Limit:     limit,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})

	logging.Ctx(r.Context()).Debug().
		Str("requested", string(pipeline)).
		Str("pipeline", string(result.Metadata.Pipeline)).
		Bool("fell_back", result.Metadata.FellBack).
		Int("videos", len(result.Videos)).
		Msg("Recommendations served")

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			QueryTimeMS: result.Metadata.LatencyMS,
		},
	})
}

// parseLimit parses the limit query parameter. Empty means 0.
func parseLimit(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
