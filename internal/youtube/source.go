// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package youtube

import (
	"context"
	"fmt"
	"strings"

	yt "google.golang.org/api/youtube/v3"

	"github.com/tomtom215/tubemix/internal/metrics"
	"github.com/tomtom215/tubemix/internal/recommend"
)

// Parts requested from videos.list.
var videoParts = []string{"snippet", "contentDetails"}

// relatedKeywords is how many title keywords seed the related search.
const relatedKeywords = 3

// Search returns videos matching query on the given page (0-based).
//
// Page tokens are cached per query. A request for an uncached page walks
// forward from the nearest known page, at most MaxPageWalk extra calls;
// when the walk is cut short or results run out, the furthest page
// reached is returned.
func (c *Client) Search(ctx context.Context, query string, page int) ([]recommend.Video, error) {
	if page < 0 {
		page = 0
	}

	k, token := c.nearestPage(query, page)
	for walked := 0; ; walked++ {
		resp, err := c.searchPage(ctx, query, token)
		if err != nil {
			return nil, err
		}
		next := resp.NextPageToken
		if next != "" {
			c.pages.Add(pageKey{query: query, page: k + 1}, next)
		}

		if k >= page || next == "" || walked >= c.cfg.MaxPageWalk {
			return c.hydrateSearch(ctx, resp.Items), nil
		}
		token = next
		k++
	}
}

// nearestPage returns the highest page <= page with a known token.
func (c *Client) nearestPage(query string, page int) (int, string) {
	for k := page; k > 0; k-- {
		if tok, ok := c.pages.Get(pageKey{query: query, page: k}); ok {
			metrics.RecordCacheLookup("page_token", true)
			return k, tok
		}
	}
	if page > 0 {
		metrics.RecordCacheLookup("page_token", false)
	}
	return 0, ""
}

func (c *Client) searchPage(ctx context.Context, query, token string) (*yt.SearchListResponse, error) {
	return call(ctx, c, "search", func(ctx context.Context) (*yt.SearchListResponse, error) {
		req := c.svc.Search.List([]string{"snippet"}).
			Q(query).
			Type("video").
			MaxResults(c.cfg.MaxResults).
			Context(ctx)
		if token != "" {
			req = req.PageToken(token)
		}
		return req.Do()
	})
}

// hydrateSearch converts search results and fills in durations with one
// videos.list call. If hydration fails the snippet-only videos are
// returned, since a missing duration is treated as unknown.
func (c *Client) hydrateSearch(ctx context.Context, items []*yt.SearchResult) []recommend.Video {
	now := c.now()
	out := make([]recommend.Video, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if v, ok := fromSearchResult(item, now); ok {
			out = append(out, v)
			ids = append(ids, v.ID)
		}
	}
	if len(ids) == 0 {
		return out
	}

	full, err := c.videosByID(ctx, ids)
	if err != nil {
		c.logger.Warn().Err(err).Int("videos", len(ids)).Msg("Hydration failed, returning search snippets")
		return out
	}
	for i := range out {
		if v, ok := full[out[i].ID]; ok {
			out[i] = v
		}
	}
	return out
}

// videosByID looks up videos by ID, keyed by ID.
func (c *Client) videosByID(ctx context.Context, ids []string) (map[string]recommend.Video, error) {
	resp, err := call(ctx, c, "videos", func(ctx context.Context) (*yt.VideoListResponse, error) {
		return c.svc.Videos.List(videoParts).
			Id(strings.Join(ids, ",")).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, err
	}

	now := c.now()
	out := make(map[string]recommend.Video, len(resp.Items))
	for _, item := range resp.Items {
		out[item.Id] = fromVideo(item, now)
	}
	return out, nil
}

// hydrateIDs looks up ids and returns them in input order, skipping any
// the API did not return.
func (c *Client) hydrateIDs(ctx context.Context, ids []string) ([]recommend.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	full, err := c.videosByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]recommend.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := full[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// ChannelVideos returns the latest uploads of a channel.
func (c *Client) ChannelVideos(ctx context.Context, channelID string) ([]recommend.Video, error) {
	playlistID, err := c.uploadsPlaylist(ctx, channelID)
	if err != nil {
		return nil, err
	}

	resp, err := call(ctx, c, "playlistItems", func(ctx context.Context) (*yt.PlaylistItemListResponse, error) {
		return c.svc.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(c.cfg.MaxResults).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
			ids = append(ids, item.ContentDetails.VideoId)
		}
	}
	return c.hydrateIDs(ctx, ids)
}

// uploadsPlaylist resolves a channel's uploads playlist ID.
func (c *Client) uploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	if id, ok := c.uploads.Get(channelID); ok {
		metrics.RecordCacheLookup("uploads_playlist", true)
		return id, nil
	}
	metrics.RecordCacheLookup("uploads_playlist", false)

	resp, err := call(ctx, c, "channels", func(ctx context.Context) (*yt.ChannelListResponse, error) {
		return c.svc.Channels.List([]string{"contentDetails"}).
			Id(channelID).
			Context(ctx).
			Do()
	})
	if err != nil {
		return "", err
	}

	for _, item := range resp.Items {
		if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil &&
			item.ContentDetails.RelatedPlaylists.Uploads != "" {
			id := item.ContentDetails.RelatedPlaylists.Uploads
			c.uploads.Add(channelID, id)
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: channel %s", ErrNotFound, channelID)
}

// VideoDetails returns a video and its related videos.
//
// The Data API no longer offers related-video lookups, so related videos
// come from a search over the video's leading title keywords, excluding
// the video itself. A failed related search still yields the details.
func (c *Client) VideoDetails(ctx context.Context, videoID string) (*recommend.VideoDetails, error) {
	if d, ok := c.details.Get(videoID); ok {
		metrics.RecordCacheLookup("video_details", true)
		return d, nil
	}
	metrics.RecordCacheLookup("video_details", false)

	full, err := c.videosByID(ctx, []string{videoID})
	if err != nil {
		return nil, err
	}
	video, ok := full[videoID]
	if !ok {
		return nil, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}

	details := &recommend.VideoDetails{Video: video}
	if query := relatedQuery(&video); query != "" {
		related, err := c.Search(ctx, query, 0)
		if err != nil {
			c.logger.Warn().Err(err).Str("video_id", videoID).Msg("Related search failed")
			return details, nil
		}
		for _, v := range related {
			if v.ID != videoID {
				details.RelatedVideos = append(details.RelatedVideos, v)
			}
		}
	}

	c.details.Add(videoID, details)
	return details, nil
}

func relatedQuery(v *recommend.Video) string {
	kw := recommend.ExtractKeywords(v.Title)
	if len(kw) > relatedKeywords {
		kw = kw[:relatedKeywords]
	}
	if len(kw) == 0 {
		return v.ChannelName
	}
	return strings.Join(kw, " ")
}

// RecommendedVideos returns the most-popular chart for the configured region.
func (c *Client) RecommendedVideos(ctx context.Context) ([]recommend.Video, error) {
	resp, err := call(ctx, c, "videos", func(ctx context.Context) (*yt.VideoListResponse, error) {
		req := c.svc.Videos.List(videoParts).
			Chart("mostPopular").
			MaxResults(c.cfg.MaxResults).
			Context(ctx)
		if c.cfg.RegionCode != "" {
			req = req.RegionCode(c.cfg.RegionCode)
		}
		return req.Do()
	})
	if err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]recommend.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, fromVideo(item, now))
	}
	return out, nil
}
