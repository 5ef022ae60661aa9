// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"strings"
	"time"

	"github.com/tomtom215/tubemix/internal/textmatch"
)

// Scorer applies the additive rule set to candidate videos.
// A Scorer is stateless and safe for concurrent use.
type Scorer struct {
	cfg ScoringConfig
	now func() time.Time
}

// NewScorer creates a scorer with the given weights.
func NewScorer(cfg ScoringConfig) *Scorer { //nolint:gocritic // hugeParam: config copied once at construction
	return &Scorer{cfg: cfg, now: time.Now}
}

// Accept reports whether a score passes the reject threshold.
func (s *Scorer) Accept(score int) bool {
	return score > s.cfg.RejectThreshold
}

// Score scores a single video against src. Callers scoring many videos
// against the same source should use Bind.
func (s *Scorer) Score(v *Video, src *Source) ScoredVideo {
	return s.Bind(src).Score(v)
}

// Bind precomputes the per-source lookup structures.
func (s *Scorer) Bind(src *Source) *BoundScorer {
	prefs := &src.Preferences

	b := &BoundScorer{
		scorer:   s,
		ng:       textmatch.NewBuilder[string]().AddAll(prefs.NGKeywords, "").Build(),
		genres:   lowerNonEmpty(prefs.Genres),
		channels: lowerNonEmpty(prefs.Channels),
		subIDs:   make(map[string]struct{}, len(src.Subscriptions)),
		subNames: make(map[string]string, len(src.Subscriptions)),
		context:  scoredContext(&prefs.Context),
		fresh:    prefs.Freshness == FreshnessNew,
		now:      s.now(),
	}

	for _, ch := range src.Subscriptions {
		if ch.ID != "" {
			b.subIDs[ch.ID] = struct{}{}
		}
		if name := strings.ToLower(strings.TrimSpace(ch.Name)); name != "" {
			b.subNames[name] = ch.Name
		}
	}

	if len(prefs.Durations) > 0 {
		b.durations = make(map[DurationBucket]struct{}, len(prefs.Durations))
		for _, d := range prefs.Durations {
			b.durations[d] = struct{}{}
		}
	}

	return b
}

// BoundScorer scores videos against one Source.
type BoundScorer struct {
	scorer    *Scorer
	ng        *textmatch.Matcher[string]
	genres    []string
	channels  []string
	subIDs    map[string]struct{}
	subNames  map[string]string
	durations map[DurationBucket]struct{}
	context   []contextWant
	fresh     bool
	now       time.Time
}

// Accept reports whether a score passes the reject threshold.
func (b *BoundScorer) Accept(score int) bool {
	return b.scorer.Accept(score)
}

// Score computes the score and reason trace for v.
func (b *BoundScorer) Score(v *Video) ScoredVideo {
	cfg := &b.scorer.cfg
	text := v.searchText()
	out := ScoredVideo{Video: *v}

	if m, ok := b.ng.First(text); ok {
		out.Score = cfg.NGScore
		out.Reasons = []Reason{{Kind: ReasonNG, Detail: m.Pattern}}
		return out
	}

	if b.durations != nil {
		bucket := ClassifyDuration(v.Seconds())
		switch {
		case bucket == DurationUnknown:
		case hasBucket(b.durations, bucket):
			out.add(cfg.DurationBonus, ReasonDuration, DetailPriorityMatch)
		default:
			out.add(-cfg.DurationPenalty, ReasonDuration, DetailMismatch)
		}
	}

	if name := strings.ToLower(v.ChannelName); name != "" {
		for _, ch := range b.channels {
			if strings.Contains(name, ch) {
				out.add(cfg.ChannelBonus, ReasonChannel, ch)
				break
			}
		}
	}

	if _, ok := b.subIDs[v.ChannelID]; ok {
		out.add(cfg.SubscriptionBonus, ReasonSubscription, v.ChannelName)
	} else if orig, ok := b.subNames[strings.ToLower(strings.TrimSpace(v.ChannelName))]; ok {
		out.add(cfg.SubscriptionBonus, ReasonSubscription, orig)
	}

	for _, g := range b.genres {
		if strings.Contains(text, g) {
			out.add(cfg.GenreBonus, ReasonGenre, g)
		}
	}

	if len(b.context) > 0 {
		hits := contextMatcher.Tags(text)
		for _, want := range b.context {
			if containsCategory(hits, want.category) {
				out.add(cfg.ContextBonus, ReasonContext, string(want.category))
			}
		}
	}

	if b.fresh && isRecent(v.Published, b.now, cfg.RecentWindow) {
		out.add(cfg.FreshnessBonus, ReasonFreshness, string(FreshnessNew))
	}

	return out
}

func (s *ScoredVideo) add(delta int, kind ReasonKind, detail string) {
	s.Score += delta
	s.Reasons = append(s.Reasons, Reason{Kind: kind, Detail: detail})
}

func hasBucket(set map[DurationBucket]struct{}, b DurationBucket) bool {
	_, ok := set[b]
	return ok
}

func containsCategory(list []ContextCategory, c ContextCategory) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

func lowerNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
