// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/tubemix/internal/recommend"
	"github.com/tomtom215/tubemix/internal/validation"
)

// GetPreferences handles GET /api/v1/preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, h.prefs.Load(r.Context()))
}

// PutPreferences handles PUT /api/v1/preferences. The body replaces the
// whole snapshot; omitted fields reset to their defaults.
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	prefs := recommend.DefaultPreferences()
	if err := decodeJSONBody(w, r, &prefs); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body", err)
		return
	}

	if err := h.prefs.Save(r.Context(), prefs); err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			respondValidationError(w, r, verr)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeStoreError, "Failed to save preferences", err)
		return
	}

	respondSuccess(w, r, h.prefs.Load(r.Context()))
}
