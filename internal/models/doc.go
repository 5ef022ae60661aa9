// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

// Package models defines the wire types shared by the HTTP API and the
// event bus: the APIResponse envelope, request bodies, and event payloads.
// Domain types live in package recommend.
package models
