// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errSourceDown = errors.New("source unavailable")

// mockSource implements VideoSource for testing.
type mockSource struct {
	mu sync.Mutex

	search      map[string][]Video
	searchAll   []Video
	channels    map[string][]Video
	related     map[string][]Video
	recommended []Video

	searchErr      error
	channelErr     error
	detailsErr     error
	recommendedErr error
	panicOnSearch  bool
	delay          time.Duration

	queries    []string
	channelIDs []string
	inFlight   int
	maxFlight  int
}

func (m *mockSource) enter() {
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.maxFlight {
		m.maxFlight = m.inFlight
	}
	m.mu.Unlock()
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
}

func (m *mockSource) leave() {
	m.mu.Lock()
	m.inFlight--
	m.mu.Unlock()
}

func (m *mockSource) Search(ctx context.Context, query string, page int) ([]Video, error) {
	m.enter()
	defer m.leave()

	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.panicOnSearch {
		panic("search exploded")
	}
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if v, ok := m.search[query]; ok {
		return v, nil
	}
	return m.searchAll, nil
}

func (m *mockSource) ChannelVideos(ctx context.Context, channelID string) ([]Video, error) {
	m.enter()
	defer m.leave()

	m.mu.Lock()
	m.channelIDs = append(m.channelIDs, channelID)
	m.mu.Unlock()

	if m.channelErr != nil {
		return nil, m.channelErr
	}
	return m.channels[channelID], nil
}

func (m *mockSource) VideoDetails(ctx context.Context, videoID string) (*VideoDetails, error) {
	m.enter()
	defer m.leave()

	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	return &VideoDetails{Video: Video{ID: videoID}, RelatedVideos: m.related[videoID]}, nil
}

func (m *mockSource) RecommendedVideos(ctx context.Context) ([]Video, error) {
	m.enter()
	defer m.leave()

	if m.recommendedErr != nil {
		return nil, m.recommendedErr
	}
	return m.recommended, nil
}

func (m *mockSource) searched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// countingObserver records observer callbacks.
type countingObserver struct {
	mu        sync.Mutex
	fetches   int
	failures  int
	pipelines []Pipeline
	fallbacks []Pipeline
}

func (o *countingObserver) ObserveFetch(_ FetchKind, _ time.Duration, _ int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fetches++
	if err != nil {
		o.failures++
	}
}

func (o *countingObserver) ObservePipeline(p Pipeline, _ time.Duration, _, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pipelines = append(o.pipelines, p)
}

func (o *countingObserver) ObserveFallback(from Pipeline) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks = append(o.fallbacks, from)
}

func videos(ids ...string) []Video {
	out := make([]Video, len(ids))
	for i, id := range ids {
		out[i] = Video{ID: id, Title: "video " + id, Duration: "PT10M"}
	}
	return out
}

func scored(ids ...string) []ScoredVideo {
	out := make([]ScoredVideo, len(ids))
	for i, id := range ids {
		out[i] = ScoredVideo{Video: Video{ID: id}}
	}
	return out
}

func ids[T Video | ScoredVideo](list []T) []string {
	out := make([]string, len(list))
	for i, v := range list {
		switch x := any(v).(type) {
		case Video:
			out[i] = x.ID
		case ScoredVideo:
			out[i] = x.Video.ID
		}
	}
	return out
}
