// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Task is one collaborator call issued by the orchestrator.
type Task struct {
	Kind FetchKind
	Key  string
	Run  func(ctx context.Context) ([]Video, error)
}

// Orchestrator runs collaborator calls concurrently with all-settled
// semantics: a failed or panicking call contributes an empty list.
type Orchestrator struct {
	source   VideoSource
	limit    int
	logger   zerolog.Logger
	observer Observer
}

// NewOrchestrator creates an orchestrator bounded to limit in-flight calls.
func NewOrchestrator(source VideoSource, limit int, logger zerolog.Logger, observer Observer) *Orchestrator {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Orchestrator{source: source, limit: limit, logger: logger, observer: observer}
}

// Run executes tasks and returns their results aligned with task order.
func (o *Orchestrator) Run(ctx context.Context, tasks []Task) [][]Video {
	results := make([][]Video, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	var g errgroup.Group
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}
	for i := range tasks {
		g.Go(func() error {
			results[i] = o.attempt(ctx, &tasks[i])
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // every task reports nil

	return results
}

// attempt runs a single task, converting errors and panics to empty results.
func (o *Orchestrator) attempt(ctx context.Context, t *Task) (videos []Video) {
	start := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			videos = nil
		}
		if err != nil {
			o.logger.Warn().Err(err).
				Str("kind", string(t.Kind)).
				Str("key", t.Key).
				Msg("Fetch failed, continuing without it")
		}
		o.observer.ObserveFetch(t.Kind, time.Since(start), len(videos), err)
	}()

	if err = ctx.Err(); err != nil {
		return nil
	}
	videos, err = t.Run(ctx)
	if err != nil {
		return nil
	}
	return videos
}

// Search returns a task searching query on page.
func (o *Orchestrator) Search(query string, page int) Task {
	return Task{Kind: FetchSearch, Key: query, Run: func(ctx context.Context) ([]Video, error) {
		return o.source.Search(ctx, query, page)
	}}
}

// Channel returns a task fetching a channel's latest uploads.
func (o *Orchestrator) Channel(channelID string) Task {
	return Task{Kind: FetchChannel, Key: channelID, Run: func(ctx context.Context) ([]Video, error) {
		return o.source.ChannelVideos(ctx, channelID)
	}}
}

// Related returns a task fetching videos related to videoID.
func (o *Orchestrator) Related(videoID string) Task {
	return Task{Kind: FetchRelated, Key: videoID, Run: func(ctx context.Context) ([]Video, error) {
		d, err := o.source.VideoDetails(ctx, videoID)
		if err != nil || d == nil {
			return nil, err
		}
		return d.RelatedVideos, nil
	}}
}

// Recommended returns a task fetching the generic recommended feed.
func (o *Orchestrator) Recommended() Task {
	return Task{Kind: FetchRecommended, Key: "feed", Run: o.source.RecommendedVideos}
}

// FetchPlan issues every query and channel feed of plan concurrently.
func (o *Orchestrator) FetchPlan(ctx context.Context, plan *Plan) [][]Video {
	tasks := make([]Task, 0, len(plan.Queries)+len(plan.ChannelIDs))
	for _, q := range plan.Queries {
		tasks = append(tasks, o.Search(q.Text, q.Page))
	}
	for _, id := range plan.ChannelIDs {
		tasks = append(tasks, o.Channel(id))
	}
	return o.Run(ctx, tasks)
}
