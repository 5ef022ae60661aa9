// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

// Package cache provides a generic, thread-safe LRU cache with TTL.
//
// The YouTube client uses it for video details, channel uploads-playlist
// IDs, and search page tokens, all of which cost API quota to refetch.
//
//	details := cache.NewLRU[string, *recommend.VideoDetails](2048, 15*time.Minute)
//	if d, ok := details.Get(id); ok {
//	    return d, nil
//	}
package cache
