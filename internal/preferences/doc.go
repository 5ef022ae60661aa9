// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

// Package preferences persists the user's explicit preferences.
//
// Each field (genres, channels, ng_keywords, durations, freshness,
// discovery_mode, context) is stored as its own JSON value in a KV,
// normally BadgerKV on BadgerDB. Reads never fail; a missing or broken
// value yields the field default from recommend.DefaultPreferences.
//
// Store.Save validates the snapshot, writes every field and publishes a
// models.PreferencesUpdatedEvent on events.TopicPreferencesUpdated.
package preferences
