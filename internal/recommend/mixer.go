// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

// Mix interleaves pools a and b so that a makes up roughly ratio of the
// output. At each step a is chosen while its running share stays below
// ratio; once either pool is exhausted the other is drained. Both pools
// keep their internal order, duplicate IDs are emitted once, and the
// output is capped at limit (no cap when limit <= 0).
func Mix(a, b []ScoredVideo, ratio float64, limit int) []ScoredVideo {
	capacity := len(a) + len(b)
	if limit > 0 && limit < capacity {
		capacity = limit
	}

	out := make([]ScoredVideo, 0, capacity)
	seen := make(map[string]struct{}, capacity)
	var i, j, fromA int

	for i < len(a) || j < len(b) {
		if limit > 0 && len(out) >= limit {
			break
		}

		takeA := i < len(a) && (j >= len(b) || float64(fromA)/float64(len(out)+1) < ratio)

		var v ScoredVideo
		if takeA {
			v = a[i]
			i++
		} else {
			v = b[j]
			j++
		}

		if _, dup := seen[v.Video.ID]; dup {
			continue
		}
		seen[v.Video.ID] = struct{}{}
		if takeA {
			fromA++
		}
		out = append(out, v)
	}

	return out
}
