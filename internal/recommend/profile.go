// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/tubemix/internal/textmatch"
)

// Profile is a weighted keyword map derived from one call's signals.
// It is never persisted.
type Profile map[string]float64

// BuildProfile derives a profile from the bounded watch and search
// windows plus subscribed channel names.
func BuildProfile(src *Source, cfg ProfileConfig) Profile { //nolint:gocritic // hugeParam: small config passed by value
	p := make(Profile)

	history := window(src.History, cfg.HistoryWindow)
	n := float64(len(history))
	for i := range history {
		w := cfg.WatchWeight * (1 + (n-float64(i))/n)
		p.addDistinct(ExtractKeywords(history[i].Title), w)
	}

	searches := window(src.Searches, cfg.SearchWindow)
	n = float64(len(searches))
	for i, q := range searches {
		w := cfg.SearchWeight * (1 + (n-float64(i))/n)
		p.addDistinct(ExtractKeywords(q), w)
	}

	for _, ch := range src.Subscriptions {
		if name := strings.ToLower(strings.TrimSpace(ch.Name)); name != "" {
			p[name] += cfg.SubscriptionWeight
		}
	}

	return p
}

// addDistinct adds w once per distinct lower-cased keyword.
func (p Profile) addDistinct(keywords []string, w float64) {
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		p[kw] += w
	}
}

// TopKeywords returns up to n keywords by weight descending, ties broken
// lexically.
func (p Profile) TopKeywords(n int) []string {
	if n <= 0 || len(p) == 0 {
		return nil
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if p[keys[i]] != p[keys[j]] {
			return p[keys[i]] > p[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// Index compiles the profile for repeated relevance lookups.
func (p Profile) Index() *ProfileIndex {
	b := textmatch.NewBuilder[string]()
	for k := range p {
		b.Add(k, k)
	}
	return &ProfileIndex{profile: p, matcher: b.Build()}
}

// ProfileIndex scores text relevance against a Profile.
type ProfileIndex struct {
	profile Profile
	matcher *textmatch.Matcher[string]
}

// Relevance sums the weights of distinct profile keywords in v's text.
func (x *ProfileIndex) Relevance(v *Video) float64 {
	var total float64
	for _, kw := range x.matcher.Tags(v.searchText()) {
		total += x.profile[kw]
	}
	return total
}

func window[T any](in []T, n int) []T {
	if n >= 0 && len(in) > n {
		return in[:n]
	}
	return in
}
