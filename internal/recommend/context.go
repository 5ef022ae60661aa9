// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/tubemix/internal/textmatch"
)

// ContextCategory is a named thematic bucket used for soft
// content-style matching.
type ContextCategory string

const (
	CategoryCasual        ContextCategory = "casual"
	CategoryDeep          ContextCategory = "deep"
	CategoryInstrumental  ContextCategory = "instrumental"
	CategoryVocal         ContextCategory = "vocal"
	CategoryLive          ContextCategory = "live"
	CategorySolo          ContextCategory = "solo"
	CategoryCollab        ContextCategory = "collab"
	CategoryEntertainment ContextCategory = "entertainment"
	CategoryEducation     ContextCategory = "education"
	CategoryAvatar        ContextCategory = "avatar"
	CategoryReal          ContextCategory = "real"
)

// contextKeywords maps each category to its bilingual keyword list. The
// first entry doubles as the query modifier for the category.
var contextKeywords = map[ContextCategory][]string{
	CategoryCasual:        {"chill", "casual", "relax", "雑談", "まったり", "のんびり"},
	CategoryDeep:          {"explained", "analysis", "deep dive", "documentary", "解説", "考察", "徹底", "ドキュメンタリー"},
	CategoryInstrumental:  {"instrumental", "bgm", "piano", "lofi", "lo-fi", "インスト", "ピアノ", "作業用"},
	CategoryVocal:         {"vocal", "cover", "singing", "acapella", "歌ってみた", "歌枠", "ボーカル", "弾き語り"},
	CategoryLive:          {"live", "livestream", "stream", "生放送", "生配信", "ライブ", "配信"},
	CategorySolo:          {"solo", "ソロ", "一人", "ひとり"},
	CategoryCollab:        {"collab", "feat.", "ft.", "コラボ", "共演", "対談"},
	CategoryEntertainment: {"funny", "comedy", "prank", "challenge", "reaction", "バラエティ", "面白", "ドッキリ", "企画"},
	CategoryEducation:     {"tutorial", "lesson", "how to", "course", "learn", "講座", "勉強", "入門", "授業"},
	CategoryAvatar:        {"vtuber", "virtual", "avatar", "live2d", "バーチャル", "ブイチューバー"},
	CategoryReal:          {"vlog", "irl", "face reveal", "実写", "顔出し", "日常"},
}

// recentMarkers are minutes/hours/days-ago phrasings in English and Japanese.
var recentMarkers = []string{
	"just now", "minute ago", "minutes ago", "hour ago", "hours ago", "day ago", "days ago",
	"たった今", "秒前", "分前", "時間前", "日前",
}

var (
	contextMatcher = buildContextMatcher()
	recentMatcher  = textmatch.NewBuilder[struct{}]().AddAll(recentMarkers, struct{}{}).Build()
)

func buildContextMatcher() *textmatch.Matcher[ContextCategory] {
	b := textmatch.NewBuilder[ContextCategory]()
	for cat, words := range contextKeywords {
		b.AddAll(words, cat)
	}
	return b.Build()
}

// IsContextCategory reports whether name is a known context category.
func IsContextCategory(name string) bool {
	_, ok := contextKeywords[ContextCategory(strings.ToLower(name))]
	return ok
}

// ContextCategories returns the known category names, sorted.
func ContextCategories() []string {
	out := make([]string, 0, len(contextKeywords))
	for cat := range contextKeywords {
		out = append(out, string(cat))
	}
	sort.Strings(out)
	return out
}

// contextModifier returns the query modifier for a context category.
func contextModifier(cat ContextCategory) string {
	words := contextKeywords[cat]
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// contextWant is one scored fine-grained preference.
type contextWant struct {
	field    string
	category ContextCategory
}

// scoredContext returns the scored context preferences that name a known
// category. Era, region and pacing never score; see contextModifiers.
func scoredContext(c *ContextPreferences) []contextWant {
	fields := [...]struct {
		name  string
		value string
	}{
		{"depth", c.Depth},
		{"vocal", c.Vocal},
		{"live", c.Live},
		{"community", c.Community},
		{"info", c.Info},
		{"visual", c.Visual},
	}

	var out []contextWant
	for _, f := range fields {
		v := strings.ToLower(strings.TrimSpace(f.value))
		if v == "" || v == ContextAny || !IsContextCategory(v) {
			continue
		}
		out = append(out, contextWant{field: f.name, category: ContextCategory(v)})
	}
	return out
}

// contextModifiers returns the query modifier candidates for c: the
// first keyword of each scored category, then the free-form era, region
// and pacing terms as written.
func contextModifiers(c *ContextPreferences) []string {
	var out []string
	for _, w := range scoredContext(c) {
		if m := contextModifier(w.category); m != "" {
			out = append(out, m)
		}
	}
	for _, term := range [...]string{c.Era, c.Region, c.Pacing} {
		term = strings.TrimSpace(term)
		if term == "" || strings.EqualFold(term, ContextAny) {
			continue
		}
		out = append(out, term)
	}
	return out
}

// isRecent reports whether a recency descriptor indicates a recent
// upload: either a relative marker or an RFC3339 timestamp inside window.
func isRecent(published string, now time.Time, window time.Duration) bool {
	if published == "" {
		return false
	}
	if recentMatcher.Contains(published) {
		return true
	}
	if window <= 0 {
		return false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(published))
	if err != nil {
		return false
	}
	age := now.Sub(t)
	return age >= 0 && age <= window
}
