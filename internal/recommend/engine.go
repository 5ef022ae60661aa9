// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Engine runs the recommendation pipelines against a VideoSource.
// It holds no per-user state and is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	source   VideoSource
	observer Observer

	scorer  *Scorer
	planner *Planner
	orch    *Orchestrator

	// Random source for determinism (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex

	now func() time.Time

	requestCount atomic.Int64
	fallbacks    atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver sets the instrumentation observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithRand replaces the engine's seeded random source.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithClock sets the clock used for recency checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source VideoSource, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("video source is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	e := &Engine{
		config:   cfg.Clone(),
		logger:   logger.With().Str("component", "recommend").Logger(),
		source:   source,
		observer: nopObserver{},
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for recommendation shuffling
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.scorer = NewScorer(e.config.Scoring)
	e.scorer.now = e.now
	e.planner = NewPlanner(e.config.Planner)
	e.orch = NewOrchestrator(source, e.config.Fetch.Concurrency, e.logger, e.observer)

	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Stats returns the number of requests served and fallbacks taken.
func (e *Engine) Stats() (requests, fallbacks int64) {
	return e.requestCount.Load(), e.fallbacks.Load()
}

// outcome is the internal result of one pipeline run.
type outcome struct {
	videos     []ScoredVideo
	queries    []string
	candidates int
}

// Recommend dispatches req to its pipeline. A request without any signal,
// or whose pipeline yields nothing, is served by the fallback pipeline.
// Recommend never fails; degraded runs return fewer or zero videos.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) *Result {
	start := e.now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("pipeline", string(req.Pipeline)).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	src := &req.Source
	rng := e.callRand()

	used := req.Pipeline
	if used != PipelineFallback && !src.HasSignal() {
		logger.Debug().Msg("no signal, using fallback pipeline")
		used = PipelineFallback
	}

	out := e.run(ctx, used, src, req.Limit, rng)

	if len(out.videos) == 0 && used != PipelineFallback && e.config.Pipeline.FallbackOnEmpty {
		logger.Info().
			Int("candidates", out.candidates).
			Msg("pipeline returned no videos, using fallback pipeline")
		used = PipelineFallback
		fb := e.run(ctx, used, src, req.Limit, rng)
		fb.queries = out.queries
		fb.candidates += out.candidates
		out = fb
	}

	if used != req.Pipeline {
		e.fallbacks.Add(1)
		e.observer.ObserveFallback(req.Pipeline)
	}

	elapsed := e.now().Sub(start)
	e.observer.ObservePipeline(used, elapsed, out.candidates, len(out.videos))

	logger.Debug().
		Str("used", string(used)).
		Int("candidates", out.candidates).
		Int("returned", len(out.videos)).
		Dur("latency", elapsed).
		Msg("recommendation complete")

	if out.videos == nil {
		out.videos = []ScoredVideo{}
	}
	return &Result{
		Videos: out.videos,
		Metadata: ResultMetadata{
			RequestID:  req.RequestID,
			Requested:  req.Pipeline,
			Pipeline:   used,
			FellBack:   used != req.Pipeline,
			Queries:    out.queries,
			Candidates: out.candidates,
			LatencyMS:  elapsed.Milliseconds(),
			Timestamp:  e.now(),
		},
	}
}

// Strict runs the strict pipeline: plan, fetch, dedupe, score, filter,
// sort and cap.
func (e *Engine) Strict(ctx context.Context, src *Source, limit int) []ScoredVideo {
	return e.strict(ctx, src, e.clampLimit(limit), e.callRand()).videos
}

// Mixed runs the weighted dual-pool pipeline.
func (e *Engine) Mixed(ctx context.Context, src *Source, limit int) []ScoredVideo {
	return e.mixed(ctx, src, e.clampLimit(limit), e.callRand()).videos
}

// Fallback returns a shuffled recommended feed.
func (e *Engine) Fallback(ctx context.Context, src *Source, limit int) []ScoredVideo {
	return e.fallback(ctx, src, e.clampLimit(limit), e.callRand()).videos
}

func (e *Engine) run(ctx context.Context, p Pipeline, src *Source, limit int, rng *rand.Rand) outcome {
	switch p {
	case PipelineStrict:
		return e.strict(ctx, src, limit, rng)
	case PipelineFallback:
		return e.fallback(ctx, src, limit, rng)
	default:
		return e.mixed(ctx, src, limit, rng)
	}
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = e.generateRequestID()
	}
	if req.Pipeline == "" {
		req.Pipeline = PipelineMixed
	}
	req.Limit = e.clampLimit(req.Limit)
	return req
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.config.Pipeline.DefaultLimit
	}
	if limit > e.config.Pipeline.MaxLimit {
		return e.config.Pipeline.MaxLimit
	}
	return limit
}

// callRand derives an independent generator for one call.
func (e *Engine) callRand() *rand.Rand {
	e.rngMu.Lock()
	seed := e.rng.Int63()
	e.rngMu.Unlock()
	return rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for recommendation shuffling
}

func (e *Engine) generateRequestID() string {
	e.rngMu.Lock()
	n := e.rng.Intn(10000)
	e.rngMu.Unlock()
	return fmt.Sprintf("rec-%d-%d", time.Now().UnixNano(), n)
}

func (e *Engine) strict(ctx context.Context, src *Source, limit int, rng *rand.Rand) outcome {
	plan := e.planner.Plan(src, rng)
	candidates := Dedupe(e.orch.FetchPlan(ctx, &plan)...)
	if e.config.Pipeline.ExcludeWatched {
		candidates = Exclude(candidates, idSet(src.History))
	}

	bound := e.scorer.Bind(src)
	scored := make([]ScoredVideo, 0, len(candidates))
	for i := range candidates {
		s := bound.Score(&candidates[i])
		if bound.Accept(s.Score) {
			scored = append(scored, s)
		}
	}
	sortByScore(scored)

	return outcome{videos: capVideos(scored, limit), queries: plan.Texts(), candidates: len(candidates)}
}

func (e *Engine) mixed(ctx context.Context, src *Source, limit int, rng *rand.Rand) outcome {
	profile := BuildProfile(src, e.config.Profile)

	discoveryTasks, queries := e.discoveryTasks(src, profile, rng)
	comfortTasks := e.comfortTasks(src, rng)

	results := e.orch.Run(ctx, append(discoveryTasks, comfortTasks...))
	discovery := Dedupe(results[:len(discoveryTasks)]...)
	comfort := Exclude(Dedupe(results[len(discoveryTasks):]...), idSet(discovery))
	if e.config.Pipeline.ExcludeWatched {
		watched := idSet(src.History)
		discovery = Exclude(discovery, watched)
		comfort = Exclude(comfort, watched)
	}

	r := ranker{
		cfg:      &e.config.Pipeline,
		scoring:  &e.config.Scoring,
		bound:    e.scorer.Bind(src),
		index:    profile.Index(),
		affinity: channelCounts(window(src.History, e.config.Profile.HistoryWindow)),
		src:      src,
		rng:      rng,
		now:      e.now(),
	}

	mixed := Mix(r.rank(discovery, PoolDiscovery), r.rank(comfort, PoolComfort), e.config.Pipeline.MixRatio, limit)
	return outcome{videos: mixed, queries: queries, candidates: len(discovery) + len(comfort)}
}

// discoveryTasks builds OR-joined searches from preferred genres and top
// profile keywords, or generic queries when neither exists.
func (e *Engine) discoveryTasks(src *Source, profile Profile, rng *rand.Rand) ([]Task, []string) {
	cfg := &e.config.Pipeline

	var terms []string
	seen := make(map[string]struct{})
	for _, t := range append(cloneStrings(src.Preferences.Genres), profile.TopKeywords(cfg.TopKeywords)...) {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		terms = append(terms, t)
	}

	var queries []string
	for i := 0; i < len(terms) && len(queries) < cfg.MaxDiscoveryQueries; i += cfg.ChunkSize {
		end := i + cfg.ChunkSize
		if end > len(terms) {
			end = len(terms)
		}
		queries = append(queries, strings.Join(terms[i:end], "|"))
	}
	if len(queries) == 0 {
		queries = sample(e.config.Planner.GenericQueries, e.config.Planner.GenericCount, rng)
	}

	tasks := make([]Task, len(queries))
	for i, q := range queries {
		tasks[i] = e.orch.Search(q, src.Page)
	}
	return tasks, queries
}

// comfortTasks fetches videos related to one random recent watch plus a
// few subscription feeds. Feeds are skipped in discovery mode.
func (e *Engine) comfortTasks(src *Source, rng *rand.Rand) []Task {
	var tasks []Task

	recent := window(src.History, e.config.Planner.HistoryWindow)
	if picked := sample(recent, 1, rng); len(picked) == 1 && picked[0].ID != "" {
		tasks = append(tasks, e.orch.Related(picked[0].ID))
	}

	if src.Preferences.Mode() != ModeDiscovery {
		for _, ch := range sample(src.Subscriptions, e.config.Pipeline.ComfortChannels, rng) {
			if ch.ID != "" {
				tasks = append(tasks, e.orch.Channel(ch.ID))
			}
		}
	}
	return tasks
}

func (e *Engine) fallback(ctx context.Context, src *Source, limit int, rng *rand.Rand) outcome {
	feed := Dedupe(e.orch.Run(ctx, []Task{e.orch.Recommended()})...)
	if e.config.Pipeline.ExcludeWatched {
		feed = Exclude(feed, idSet(src.History))
	}
	rng.Shuffle(len(feed), func(i, j int) { feed[i], feed[j] = feed[j], feed[i] })

	bound := e.scorer.Bind(src)
	out := make([]ScoredVideo, 0, len(feed))
	for i := range feed {
		s := bound.Score(&feed[i])
		if bound.Accept(s.Score) {
			out = append(out, s)
		}
	}
	return outcome{videos: capVideos(out, limit), candidates: len(feed)}
}

// ranker scores one mixed-pipeline track.
type ranker struct {
	cfg      *PipelineConfig
	scoring  *ScoringConfig
	bound    *BoundScorer
	index    *ProfileIndex
	affinity map[string]int
	src      *Source
	rng      *rand.Rand
	now      time.Time
}

func (r *ranker) rank(videos []Video, pool Pool) []ScoredVideo {
	prefs := &r.src.Preferences
	noDurationPref := len(prefs.Durations) == 0

	out := make([]ScoredVideo, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		s := r.bound.Score(v)
		if !r.bound.Accept(s.Score) {
			continue
		}
		if noDurationPref && ClassifyDuration(v.Seconds()) == DurationShort &&
			r.rng.Float64() >= r.cfg.ShortSurvivalRate {
			continue
		}

		if pts := int(math.Round(r.index.Relevance(v) * r.cfg.RelevanceWeight)); pts > 0 {
			s.add(pts, ReasonRelevance, "")
		}

		switch pool {
		case PoolDiscovery:
			if prefs.Freshness != FreshnessNew && isRecent(v.Published, r.now, r.scoring.RecentWindow) {
				s.add(r.cfg.FreshnessWeight, ReasonFreshness, string(PoolDiscovery))
			}
		case PoolComfort:
			if n := min(r.affinity[channelKey(v)], r.cfg.MaxAffinity); n > 0 {
				s.add(n*r.cfg.AffinityWeight, ReasonAffinity, v.ChannelName)
			}
		}

		s.Pool = pool
		out = append(out, s)
	}

	sortByScore(out)
	return out
}

func channelKey(v *Video) string {
	if v.ChannelID != "" {
		return v.ChannelID
	}
	return strings.ToLower(strings.TrimSpace(v.ChannelName))
}

func channelCounts(history []Video) map[string]int {
	counts := make(map[string]int, len(history))
	for i := range history {
		if key := channelKey(&history[i]); key != "" {
			counts[key]++
		}
	}
	return counts
}

func sortByScore(videos []ScoredVideo) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Score > videos[j].Score
	})
}

func capVideos(videos []ScoredVideo, limit int) []ScoredVideo {
	if limit > 0 && len(videos) > limit {
		return videos[:limit]
	}
	return videos
}
