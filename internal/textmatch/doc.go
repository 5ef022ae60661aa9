// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

// Package textmatch provides case-insensitive multi-pattern substring
// matching built on the Aho-Corasick automaton.
//
// A Matcher finds all occurrences of every registered pattern in
// O(n + m + z) time, where n is the text length, m the total pattern
// length and z the number of matches. Each pattern carries a typed tag,
// which lets callers answer "which categories occur in this text" with a
// single scan instead of one strings.Contains call per keyword.
//
// Patterns are lower-cased with strings.ToLower, so matching is
// case-insensitive for scripts that have case and exact for scripts that
// do not (for example Japanese kana and kanji).
//
// # Usage
//
//	b := textmatch.NewBuilder[string]()
//	b.AddAll([]string{"live", "ライブ", "生配信"}, "live")
//	b.AddAll([]string{"tutorial", "解説"}, "education")
//	m := b.Build()
//
//	m.Tags("【生配信】Go tutorial") // ["live", "education"]
//
// Matchers are immutable and safe for concurrent use.
package textmatch
