// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package models

import (
	"time"

	"github.com/tomtom215/tubemix/internal/recommend"
)

// RecommendationRequest is the body of POST /api/v1/recommendations.
// Preferences is optional; when nil the stored snapshot is used.
type RecommendationRequest struct {
	History       []recommend.Video      `json:"history,omitempty" validate:"max=500,dive"`
	Searches      []string               `json:"searches,omitempty" validate:"max=500,dive,max=200"`
	Subscriptions []recommend.Channel    `json:"subscriptions,omitempty" validate:"max=1000"`
	Preferences   *recommend.Preferences `json:"preferences,omitempty"`
	Page          int                    `json:"page,omitempty" validate:"min=0,max=50"`
}

// Source builds the engine input, using prefs when the request carries none.
//
//nolint:gocritic // hugeParam: preferences are a value snapshot
func (r *RecommendationRequest) Source(prefs recommend.Preferences) recommend.Source {
	if r.Preferences != nil {
		prefs = r.Preferences.Clone()
	}
	return recommend.Source{
		History:       r.History,
		Searches:      r.Searches,
		Subscriptions: r.Subscriptions,
		Preferences:   prefs,
		Page:          r.Page,
	}
}

// PreferencesUpdatedEvent is published on the preferences.updated topic
// after a snapshot is saved.
type PreferencesUpdatedEvent struct {
	EventID   string    `json:"event_id"`
	RequestID string    `json:"request_id,omitempty"`
	Fields    []string  `json:"fields"`
	Genres    int       `json:"genres"`
	Channels  int       `json:"channels"`
	NGWords   int       `json:"ng_keywords"`
	Mode      string    `json:"discovery_mode"`
	Timestamp time.Time `json:"timestamp"`
}
