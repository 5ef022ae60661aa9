// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package textmatch

import (
	"sync"
	"testing"
)

// allMatches collects every match in text, in order of match end position.
func allMatches[T comparable](m *Matcher[T], text string) []Match[T] {
	var out []Match[T]
	m.scan(text, func(mt Match[T]) bool {
		out = append(out, mt)
		return true
	})
	return out
}

func TestMatcher_OverlappingMatches(t *testing.T) {
	t.Parallel()

	m := NewBuilder[int]().
		Add("he", 1).
		Add("she", 2).
		Add("his", 3).
		Add("hers", 4).
		Build()

	matches := allMatches(m, "ushers")

	want := map[string]int{"she": 1, "he": 2, "hers": 2}
	got := make(map[string]int)
	for _, mt := range matches {
		got[mt.Pattern] = mt.Offset
	}

	for p, off := range want {
		gotOff, ok := got[p]
		if !ok {
			t.Errorf("missing pattern %q", p)
			continue
		}
		if gotOff != off {
			t.Errorf("%q offset = %d, want %d", p, gotOff, off)
		}
	}
	if _, ok := got["his"]; ok {
		t.Error("matched 'his' which does not occur")
	}
}

func TestMatcher_CaseInsensitive(t *testing.T) {
	t.Parallel()

	m := NewBuilder[string]().Add("Violence", "ng").Build()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "title case", text: "Violence in Cooking", want: true},
		{name: "upper case", text: "NO VIOLENCE HERE", want: true},
		{name: "substring", text: "nonviolencecamp", want: true},
		{name: "absent", text: "Easy Cooking Recipe", want: false},
		{name: "empty", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := m.Contains(tt.text); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatcher_MultiByte(t *testing.T) {
	t.Parallel()

	m := NewBuilder[string]().
		AddAll([]string{"ライブ", "生配信"}, "live").
		AddAll([]string{"解説"}, "education").
		Build()

	text := "【生配信】Goの解説"
	tags := m.Tags(text)
	if len(tags) != 2 || tags[0] != "live" || tags[1] != "education" {
		t.Fatalf("Tags(%q) = %v, want [live education]", text, tags)
	}

	mt, ok := m.First(text)
	if !ok {
		t.Fatal("First() found nothing")
	}
	if got := text[mt.Offset : mt.Offset+len("生配信")]; got != "生配信" {
		t.Errorf("First() offset points at %q, want 生配信", got)
	}
}

func TestMatcher_TagsDistinct(t *testing.T) {
	t.Parallel()

	m := NewBuilder[string]().
		AddAll([]string{"live", "stream"}, "live").
		Build()

	tags := m.Tags("live stream live")
	if len(tags) != 1 {
		t.Errorf("Tags() = %v, want one distinct tag", tags)
	}
	if got := m.Tags("a stream"); len(got) != 1 || got[0] != "live" {
		t.Errorf("Tags(\"a stream\") = %v, want [live]", got)
	}
}

func TestBuilder_IgnoresEmptyAndDuplicates(t *testing.T) {
	t.Parallel()

	b := NewBuilder[string]()
	b.Add("", "x").Add("   ", "x").Add("go", "x").Add("GO", "x").Add("go", "y")

	if len(b.patterns) != 2 {
		t.Errorf("patterns = %d, want 2", len(b.patterns))
	}
}

func TestMatcher_Empty(t *testing.T) {
	t.Parallel()

	var nilMatcher *Matcher[string]
	if !nilMatcher.Empty() {
		t.Error("nil matcher should be empty")
	}
	if nilMatcher.Contains("anything") {
		t.Error("nil matcher should never match")
	}

	m := NewBuilder[string]().Build()
	if !m.Empty() {
		t.Error("matcher without patterns should be empty")
	}
	if got := m.Tags("text"); got != nil {
		t.Errorf("Tags() = %v, want nil", got)
	}
}

func TestBuilder_BuildIsolation(t *testing.T) {
	t.Parallel()

	b := NewBuilder[string]().Add("alpha", "a")
	m := b.Build()
	b.Add("beta", "b")

	if m.Contains("beta") {
		t.Error("matcher picked up a pattern added after Build()")
	}
}

func TestMatcher_ConcurrentUse(t *testing.T) {
	t.Parallel()

	m := NewBuilder[string]().AddAll([]string{"cat", "dog", "bird"}, "pet").Build()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if !m.Contains("hotdog stand") {
					t.Error("Contains() = false under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}
