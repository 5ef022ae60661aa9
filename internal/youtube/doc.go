// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

// Package youtube implements recommend.VideoSource on the YouTube Data API v3.
//
// API mapping:
//   - Search: search.list, hydrated by one videos.list for durations
//   - ChannelVideos: channels.list for the uploads playlist, then playlistItems.list
//   - VideoDetails: videos.list plus a title-keyword search for related videos
//   - RecommendedVideos: videos.list with chart=mostPopular
//
// Resilience: every call waits on a golang.org/x/time/rate limiter and then
// runs through a sony/gobreaker circuit breaker that opens once enough
// requests have been seen and the failure ratio crosses the configured
// threshold. Rejected calls return ErrCircuitOpen. Caller cancellations and
// 4xx errors other than quota (403) and rate (429) do not count as failures.
//
// Publish timestamps are rendered as English relative ages ("3 hours ago")
// so the engine's recency markers apply to Data API results.
package youtube
