// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	hashtagPattern = regexp.MustCompile(`#[^\s#]+`)
	bracketPattern = regexp.MustCompile(`\[([^\]]*)\]|【([^】]*)】`)
)

// stopPrefixes drops URL fragments and domain residue left after
// punctuation is replaced.
var stopPrefixes = []string{"http", "www", "com", "jp"}

// ExtractKeywords turns free text into an ordered list of candidate
// terms: hashtags first (without the leading '#'), then the contents of
// [...] and 【...】 phrases, then the remaining cleaned tokens. Tokens of
// one rune or fewer and tokens starting with a stop prefix are dropped
// from the cleaned tokens. Case is preserved.
func ExtractKeywords(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string

	for _, tag := range hashtagPattern.FindAllString(text, -1) {
		if t := strings.TrimPrefix(tag, "#"); t != "" {
			out = append(out, t)
		}
	}

	for _, m := range bracketPattern.FindAllStringSubmatch(text, -1) {
		phrase := m[1]
		if phrase == "" {
			phrase = m[2]
		}
		if phrase = strings.TrimSpace(phrase); phrase != "" {
			out = append(out, phrase)
		}
	}

	rest := hashtagPattern.ReplaceAllString(text, " ")
	rest = bracketPattern.ReplaceAllString(rest, " ")
	rest = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, rest)

	for _, tok := range strings.Fields(rest) {
		if utf8.RuneCountInString(tok) <= 1 || hasStopPrefix(tok) {
			continue
		}
		out = append(out, tok)
	}

	return out
}

func hasStopPrefix(tok string) bool {
	lower := strings.ToLower(tok)
	for _, p := range stopPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
