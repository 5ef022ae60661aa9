// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package textmatch

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Match is a single pattern occurrence in a searched text.
type Match[T comparable] struct {
	Pattern string // Pattern as registered
	Tag     T      // Tag associated with the pattern
	Offset  int    // Byte offset in the lower-cased text
}

type pattern[T comparable] struct {
	text  string // lower-cased
	orig  string
	tag   T
	bytes int
}

type node struct {
	children map[rune]*node
	failure  *node
	output   []int
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Builder accumulates patterns before compiling them into a Matcher.
// A Builder is not safe for concurrent use.
type Builder[T comparable] struct {
	patterns []pattern[T]
	seen     map[string]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder[T comparable]() *Builder[T] {
	return &Builder[T]{seen: make(map[string]struct{})}
}

// Add registers a pattern with a tag. Empty or whitespace-only patterns
// are ignored, as are exact duplicates of a (pattern, tag) pair.
func (b *Builder[T]) Add(p string, tag T) *Builder[T] {
	lower := strings.ToLower(strings.TrimSpace(p))
	if lower == "" {
		return b
	}

	key := lower + "\x00" + fmt.Sprint(tag)
	if _, dup := b.seen[key]; dup {
		return b
	}
	b.seen[key] = struct{}{}

	b.patterns = append(b.patterns, pattern[T]{
		text:  lower,
		orig:  p,
		tag:   tag,
		bytes: len(lower),
	})
	return b
}

// AddAll registers every pattern with the same tag.
func (b *Builder[T]) AddAll(patterns []string, tag T) *Builder[T] {
	for _, p := range patterns {
		b.Add(p, tag)
	}
	return b
}

// Build compiles the registered patterns. The Builder may be reused
// afterwards; the returned Matcher is not affected by later Adds.
func (b *Builder[T]) Build() *Matcher[T] {
	patterns := make([]pattern[T], len(b.patterns))
	copy(patterns, b.patterns)

	m := &Matcher[T]{root: newNode(), patterns: patterns}
	for i, p := range patterns {
		m.insert(i, p.text)
	}
	m.link()
	return m
}

// Matcher finds every registered pattern in a text in a single pass,
// case-insensitively. It is immutable once built and safe for
// concurrent use.
type Matcher[T comparable] struct {
	root     *node
	patterns []pattern[T]
}

func (m *Matcher[T]) insert(idx int, text string) {
	n := m.root
	for _, ch := range text {
		next := n.children[ch]
		if next == nil {
			next = newNode()
			n.children[ch] = next
		}
		n = next
	}
	n.output = append(n.output, idx)
}

// link builds failure links breadth-first.
func (m *Matcher[T]) link() {
	queue := make([]*node, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for ch, child := range cur.children {
			queue = append(queue, child)

			fail := cur.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = m.root
				continue
			}
			child.failure = fail.children[ch]
			child.output = append(child.output, child.failure.output...)
		}
	}
}

// Empty reports whether the matcher has no patterns.
func (m *Matcher[T]) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// scan walks text and calls fn for every match until fn returns false.
func (m *Matcher[T]) scan(text string, fn func(Match[T]) bool) {
	if m.Empty() || text == "" {
		return
	}

	lower := strings.ToLower(text)
	n := m.root
	for i, ch := range lower {
		for n != nil && n.children[ch] == nil {
			n = n.failure
		}
		if n == nil {
			n = m.root
			continue
		}
		n = n.children[ch]

		end := i + utf8.RuneLen(ch)
		for _, idx := range n.output {
			p := m.patterns[idx]
			if !fn(Match[T]{Pattern: p.orig, Tag: p.tag, Offset: end - p.bytes}) {
				return
			}
		}
	}
}

// First returns the earliest-ending match in text.
func (m *Matcher[T]) First(text string) (Match[T], bool) {
	var (
		found Match[T]
		ok    bool
	)
	m.scan(text, func(mt Match[T]) bool {
		found, ok = mt, true
		return false
	})
	return found, ok
}

// Contains reports whether any pattern occurs in text.
func (m *Matcher[T]) Contains(text string) bool {
	_, ok := m.First(text)
	return ok
}

// Tags returns the distinct tags whose patterns occur in text, in the
// order they are first encountered.
func (m *Matcher[T]) Tags(text string) []T {
	var (
		out  []T
		seen = make(map[T]struct{})
	)
	m.scan(text, func(mt Match[T]) bool {
		if _, dup := seen[mt.Tag]; !dup {
			seen[mt.Tag] = struct{}{}
			out = append(out, mt.Tag)
		}
		return true
	})
	return out
}
