// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"math/rand"
	"strings"
)

// QueryOrigin records which signal produced a query.
type QueryOrigin string

const (
	OriginGenre        QueryOrigin = "genre"
	OriginChannel      QueryOrigin = "channel"
	OriginHistory      QueryOrigin = "history"
	OriginSearch       QueryOrigin = "search"
	OriginSubscription QueryOrigin = "subscription"
	OriginGeneric      QueryOrigin = "generic"
)

// Query is one planned search.
type Query struct {
	Text   string      `json:"text"`
	Page   int         `json:"page"`
	Origin QueryOrigin `json:"origin"`
}

// Plan is the set of fetches for one strict pipeline run.
type Plan struct {
	Queries    []Query  `json:"queries"`
	ChannelIDs []string `json:"channel_ids,omitempty"`
}

// Texts returns the query strings in plan order.
func (p *Plan) Texts() []string {
	out := make([]string, len(p.Queries))
	for i := range p.Queries {
		out[i] = p.Queries[i].Text
	}
	return out
}

// Planner turns a Source into a Plan.
type Planner struct {
	cfg PlannerConfig
}

// NewPlanner creates a planner.
func NewPlanner(cfg PlannerConfig) *Planner { //nolint:gocritic // hugeParam: config copied once at construction
	return &Planner{cfg: cfg}
}

type candidate struct {
	text   string
	origin QueryOrigin
}

// Plan builds the query plan for src. Explicit genres and channels are
// always kept first; the remaining slots are filled from a shuffled pool
// of history, search and subscription terms.
func (p *Planner) Plan(src *Source, rng *rand.Rand) Plan {
	prefs := &src.Preferences
	mode := prefs.Mode()
	quota := p.cfg.Quota(mode)

	var explicit, pool []candidate
	for _, g := range prefs.Genres {
		explicit = append(explicit, candidate{g, OriginGenre})
	}
	for _, c := range prefs.Channels {
		explicit = append(explicit, candidate{c, OriginChannel})
	}

	for _, v := range window(src.History, p.cfg.HistoryWindow) {
		for _, kw := range window(ExtractKeywords(v.Title), p.cfg.KeywordsPerVideo) {
			pool = append(pool, candidate{kw, OriginHistory})
		}
	}

	for _, q := range sample(window(src.Searches, p.cfg.SearchWindow), p.cfg.SearchSample, rng) {
		pool = append(pool, candidate{q, OriginSearch})
	}

	for _, ch := range sample(src.Subscriptions, quota.Queries, rng) {
		pool = append(pool, candidate{ch.Name, OriginSubscription})
	}

	if mode == ModeDiscovery || !src.HasSignal() {
		for _, g := range sample(p.cfg.GenericQueries, p.cfg.GenericCount, rng) {
			pool = append(pool, candidate{g, OriginGeneric})
		}
	}

	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	suffix := p.modifiers(prefs, rng)
	plan := Plan{}
	seen := make(map[string]struct{})
	for _, c := range append(explicit, pool...) {
		if len(plan.Queries) >= p.cfg.MaxQueries {
			break
		}
		text := strings.TrimSpace(c.text)
		key := strings.ToLower(text)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if suffix != "" {
			text += " " + suffix
		}
		plan.Queries = append(plan.Queries, Query{Text: text, Page: src.Page, Origin: c.origin})
	}

	for _, ch := range sample(src.Subscriptions, quota.Feeds, rng) {
		if ch.ID != "" {
			plan.ChannelIDs = append(plan.ChannelIDs, ch.ID)
		}
	}

	return plan
}

// modifiers returns the suffix appended to every query: one context
// modifier chosen for the whole plan, then the freshness modifier.
func (p *Planner) modifiers(prefs *Preferences, rng *rand.Rand) string {
	var parts []string

	if mods := contextModifiers(&prefs.Context); len(mods) > 0 {
		parts = append(parts, mods[rng.Intn(len(mods))])
	}

	switch prefs.Freshness {
	case FreshnessNew:
		parts = append(parts, p.cfg.NewModifier)
	case FreshnessClassic:
		parts = append(parts, p.cfg.ClassicModifier)
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// sample returns up to n elements of in in random order without
// modifying in.
func sample[T any](in []T, n int, rng *rand.Rand) []T {
	if n <= 0 || len(in) == 0 {
		return nil
	}
	if n > len(in) {
		n = len(in)
	}
	idx := make([]int, len(in))
	for i := range idx {
		idx[i] = i
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = in[idx[i]]
	}
	return out
}
