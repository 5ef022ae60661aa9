// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package youtube

import (
	"fmt"
	"time"

	yt "google.golang.org/api/youtube/v3"

	"github.com/tomtom215/tubemix/internal/recommend"
)

// fromVideo converts a videos.list item.
func fromVideo(item *yt.Video, now time.Time) recommend.Video {
	v := recommend.Video{ID: item.Id}
	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.Description = s.Description
		v.ChannelID = s.ChannelId
		v.ChannelName = s.ChannelTitle
		v.Published = RelativeAge(s.PublishedAt, now)
		v.Thumbnail = thumbnailURL(s.Thumbnails)
	}
	if item.ContentDetails != nil {
		v.Duration = item.ContentDetails.Duration
	}
	return v
}

// fromSearchResult converts a search.list item. Durations are absent
// until the result is hydrated.
func fromSearchResult(item *yt.SearchResult, now time.Time) (recommend.Video, bool) {
	if item.Id == nil || item.Id.VideoId == "" {
		return recommend.Video{}, false
	}
	v := recommend.Video{ID: item.Id.VideoId}
	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.Description = s.Description
		v.ChannelID = s.ChannelId
		v.ChannelName = s.ChannelTitle
		v.Published = RelativeAge(s.PublishedAt, now)
		v.Thumbnail = thumbnailURL(s.Thumbnails)
	}
	return v, true
}

func thumbnailURL(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*yt.Thumbnail{t.Medium, t.High, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// RelativeAge renders an RFC3339 timestamp as an English relative age
// such as "3 hours ago". Ages under a week are phrased in minutes, hours
// or days so they match the engine's recency markers; older ages use
// weeks, months or years. Unparseable input is returned unchanged.
func RelativeAge(published string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, published)
	if err != nil {
		return published
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d < 30*24*time.Hour:
		return plural(int(d/(7*24*time.Hour)), "week")
	case d < 365*24*time.Hour:
		return plural(int(d/(30*24*time.Hour)), "month")
	default:
		return plural(int(d/(365*24*time.Hour)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
