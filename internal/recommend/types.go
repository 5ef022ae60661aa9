// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Video is a candidate video as returned by a VideoSource.
// Videos are treated as immutable once fetched.
type Video struct {
	// ID is the unique video identifier.
	ID string `json:"id" validate:"required"`

	// Title is the video title.
	Title string `json:"title"`

	// ChannelID identifies the uploading channel.
	ChannelID string `json:"channel_id,omitempty"`

	// ChannelName is the display name of the uploading channel.
	ChannelName string `json:"channel_name,omitempty"`

	// Description is a description snippet.
	Description string `json:"description,omitempty"`

	// Published is a free-form recency descriptor, for example
	// "3 hours ago", "2日前" or an RFC3339 timestamp.
	Published string `json:"published,omitempty"`

	// Duration is an ISO-8601 style duration such as "PT4M13S".
	Duration string `json:"duration,omitempty"`

	// Thumbnail is an optional thumbnail URL.
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Seconds returns the parsed duration in seconds, or 0 when unknown.
func (v *Video) Seconds() int {
	return ParseDuration(v.Duration)
}

// searchText returns the lower-cased text used for substring rules.
func (v *Video) searchText() string {
	return strings.ToLower(v.Title + " " + v.Description + " " + v.ChannelName)
}

// Channel is a subscribed or referenced channel.
type Channel struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// VideoDetails is the result of a single video lookup.
type VideoDetails struct {
	Video         Video   `json:"video"`
	RelatedVideos []Video `json:"related_videos,omitempty"`
}

// DurationBucket classifies a video length.
type DurationBucket string

const (
	DurationUnknown DurationBucket = "unknown"
	DurationShort   DurationBucket = "short"
	DurationMedium  DurationBucket = "medium"
	DurationLong    DurationBucket = "long"
)

// Freshness expresses intent toward newer or established content.
type Freshness string

const (
	FreshnessAny     Freshness = "any"
	FreshnessNew     Freshness = "new"
	FreshnessClassic Freshness = "classic"
)

// DiscoveryMode expresses intent toward subscription-centric or
// exploration-centric sourcing.
type DiscoveryMode string

const (
	ModeSubscription DiscoveryMode = "subscription"
	ModeBalanced     DiscoveryMode = "balanced"
	ModeDiscovery    DiscoveryMode = "discovery"
)

// ContextAny is the context preference value that never contributes.
const ContextAny = "any"

// ContextPreferences holds fine-grained content-style preferences.
// Each value is a context category name (see ContextCategory), a
// free-form term for era, region and pacing, or ContextAny.
type ContextPreferences struct {
	Depth     string `json:"depth,omitempty" validate:"omitempty,context_value"`
	Vocal     string `json:"vocal,omitempty" validate:"omitempty,context_value"`
	Era       string `json:"era,omitempty" validate:"omitempty,max=64"`
	Region    string `json:"region,omitempty" validate:"omitempty,max=64"`
	Live      string `json:"live,omitempty" validate:"omitempty,context_value"`
	Pacing    string `json:"pacing,omitempty" validate:"omitempty,max=64"`
	Visual    string `json:"visual,omitempty" validate:"omitempty,context_value"`
	Community string `json:"community,omitempty" validate:"omitempty,context_value"`
	Info      string `json:"info,omitempty" validate:"omitempty,context_value"`
}

// Preferences is an immutable snapshot of a user's explicit preferences.
// Use Clone before handing a snapshot to code that may retain it.
type Preferences struct {
	// Genres are preferred genres or keywords.
	Genres []string `json:"genres,omitempty" validate:"max=50,dive,max=100"`

	// Channels are preferred channel-name substrings.
	Channels []string `json:"channels,omitempty" validate:"max=50,dive,max=100"`

	// NGKeywords force exclusion of any video mentioning them.
	NGKeywords []string `json:"ng_keywords,omitempty" validate:"max=100,dive,max=100"`

	// Durations are the preferred duration buckets.
	Durations []DurationBucket `json:"durations,omitempty" validate:"max=3,dive,duration_bucket"`

	// Freshness is the freshness preference.
	Freshness Freshness `json:"freshness,omitempty" validate:"omitempty,oneof=any new classic"`

	// DiscoveryMode is the sourcing preference.
	DiscoveryMode DiscoveryMode `json:"discovery_mode,omitempty" validate:"omitempty,oneof=subscription balanced discovery"`

	// Context holds fine-grained content-style preferences.
	Context ContextPreferences `json:"context"`
}

// DefaultPreferences returns the preferences used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{
		Freshness:     FreshnessAny,
		DiscoveryMode: ModeBalanced,
		Context: ContextPreferences{
			Depth:     ContextAny,
			Vocal:     ContextAny,
			Era:       ContextAny,
			Region:    ContextAny,
			Live:      ContextAny,
			Pacing:    ContextAny,
			Visual:    ContextAny,
			Community: ContextAny,
			Info:      ContextAny,
		},
	}
}

// Clone returns a deep copy of the preferences.
func (p *Preferences) Clone() Preferences {
	out := *p
	out.Genres = cloneStrings(p.Genres)
	out.Channels = cloneStrings(p.Channels)
	out.NGKeywords = cloneStrings(p.NGKeywords)
	if p.Durations != nil {
		out.Durations = append([]DurationBucket(nil), p.Durations...)
	}
	return out
}

// Mode returns the discovery mode, defaulting to balanced.
func (p *Preferences) Mode() DiscoveryMode {
	if p.DiscoveryMode == "" {
		return ModeBalanced
	}
	return p.DiscoveryMode
}

// HasExplicit reports whether any explicit preference is set.
func (p *Preferences) HasExplicit() bool {
	return len(p.Genres) > 0 || len(p.Channels) > 0 || len(p.Durations) > 0
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// Source is the per-call input to every pipeline. The engine treats it
// as read-only for the duration of a call.
type Source struct {
	// History is the watch history, most recent first.
	History []Video `json:"history,omitempty" validate:"max=500,dive"`

	// Searches is the search history, most recent first.
	Searches []string `json:"searches,omitempty" validate:"max=500"`

	// Subscriptions are the subscribed channels.
	Subscriptions []Channel `json:"subscriptions,omitempty" validate:"max=1000"`

	// Preferences is the explicit preference snapshot.
	Preferences Preferences `json:"preferences"`

	// Page is a pagination counter used for query variation.
	Page int `json:"page,omitempty" validate:"min=0,max=50"`
}

// HasSignal reports whether the source carries any usable signal.
func (s *Source) HasSignal() bool {
	return len(s.History) > 0 || len(s.Searches) > 0 || len(s.Subscriptions) > 0 ||
		s.Preferences.HasExplicit()
}

// ReasonKind categorizes a scoring reason.
type ReasonKind string

const (
	ReasonNG           ReasonKind = "ng"
	ReasonDuration     ReasonKind = "duration"
	ReasonChannel      ReasonKind = "channel"
	ReasonSubscription ReasonKind = "subscription"
	ReasonGenre        ReasonKind = "genre"
	ReasonContext      ReasonKind = "context"
	ReasonFreshness    ReasonKind = "freshness"
	ReasonRelevance    ReasonKind = "relevance"
	ReasonAffinity     ReasonKind = "affinity"
)

// Reason details for the duration rule.
const (
	DetailPriorityMatch = "priority match"
	DetailMismatch      = "mismatch"
)

// Reason is a structured explanation tag attached to a score.
type Reason struct {
	Kind   ReasonKind `json:"kind"`
	Detail string     `json:"detail,omitempty"`
}

// String returns "kind" or "kind:detail".
func (r Reason) String() string {
	if r.Detail == "" {
		return string(r.Kind)
	}
	return string(r.Kind) + ":" + r.Detail
}

// Pool identifies which candidate pool a mixed result came from.
type Pool string

const (
	PoolDiscovery Pool = "discovery"
	PoolComfort   Pool = "comfort"
)

// ScoredVideo is a Video annotated with a score and its reason trace.
// Annotations are computation artifacts and are never persisted.
type ScoredVideo struct {
	Video   Video    `json:"video"`
	Score   int      `json:"score"`
	Reasons []Reason `json:"reasons,omitempty"`
	Pool    Pool     `json:"pool,omitempty"`
}

// HasReason reports whether a reason of the given kind was recorded.
func (s *ScoredVideo) HasReason(kind ReasonKind) bool {
	for _, r := range s.Reasons {
		if r.Kind == kind {
			return true
		}
	}
	return false
}

// Pipeline names a recommendation pipeline.
type Pipeline string

const (
	PipelineStrict   Pipeline = "strict"
	PipelineMixed    Pipeline = "mixed"
	PipelineFallback Pipeline = "fallback"
)

// ParsePipeline parses a pipeline name. The empty string selects the
// mixed pipeline.
func ParsePipeline(s string) (Pipeline, error) {
	switch Pipeline(strings.ToLower(strings.TrimSpace(s))) {
	case "", PipelineMixed:
		return PipelineMixed, nil
	case PipelineStrict:
		return PipelineStrict, nil
	case PipelineFallback:
		return PipelineFallback, nil
	default:
		return "", fmt.Errorf("unknown pipeline %q", s)
	}
}

// Request is a recommendation request.
type Request struct {
	// Source carries the per-call signals.
	Source Source

	// Pipeline selects the pipeline. Empty selects mixed.
	Pipeline Pipeline

	// Limit is the maximum number of results. Zero uses the default.
	Limit int

	// RequestID is propagated into logs and metadata.
	RequestID string
}

// Result is the outcome of a pipeline run. Pipelines never fail; a
// degraded run yields fewer or zero videos.
type Result struct {
	Videos   []ScoredVideo  `json:"videos"`
	Metadata ResultMetadata `json:"metadata"`
}

// ResultMetadata describes how a Result was produced.
type ResultMetadata struct {
	RequestID  string    `json:"request_id,omitempty"`
	Requested  Pipeline  `json:"requested"`
	Pipeline   Pipeline  `json:"pipeline"`
	FellBack   bool      `json:"fell_back,omitempty"`
	Queries    []string  `json:"queries,omitempty"`
	Candidates int       `json:"candidates"`
	LatencyMS  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// VideoSource is the remote video/channel data source. Every method may
// fail; the engine recovers each failure to an empty result.
type VideoSource interface {
	// Search returns videos matching query on the given result page.
	Search(ctx context.Context, query string, page int) ([]Video, error)

	// ChannelVideos returns the latest uploads of a channel.
	ChannelVideos(ctx context.Context, channelID string) ([]Video, error)

	// VideoDetails returns a video and its related videos.
	VideoDetails(ctx context.Context, videoID string) (*VideoDetails, error)

	// RecommendedVideos returns a generic recommended feed.
	RecommendedVideos(ctx context.Context) ([]Video, error)
}

// FetchKind labels a collaborator call.
type FetchKind string

const (
	FetchSearch      FetchKind = "search"
	FetchChannel     FetchKind = "channel"
	FetchRelated     FetchKind = "related"
	FetchRecommended FetchKind = "recommended"
)

// Observer receives engine instrumentation events.
type Observer interface {
	ObserveFetch(kind FetchKind, d time.Duration, videos int, err error)
	ObservePipeline(p Pipeline, d time.Duration, candidates, results int)
	ObserveFallback(from Pipeline)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(FetchKind, time.Duration, int, error) {}
func (nopObserver) ObservePipeline(Pipeline, time.Duration, int, int) {}
func (nopObserver) ObserveFallback(Pipeline)                          {}
