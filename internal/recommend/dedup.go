// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

// Dedupe flattens lists and keeps the first occurrence of each video ID.
// Videos without an ID are dropped.
func Dedupe(lists ...[]Video) []Video {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	out := make([]Video, 0, total)
	seen := make(map[string]struct{}, total)
	for _, l := range lists {
		for i := range l {
			id := l[i].ID
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, l[i])
		}
	}
	return out
}

// Exclude returns the videos whose IDs are not in ids, preserving order.
func Exclude(videos []Video, ids map[string]struct{}) []Video {
	if len(ids) == 0 {
		return videos
	}
	out := make([]Video, 0, len(videos))
	for i := range videos {
		if _, drop := ids[videos[i].ID]; !drop {
			out = append(out, videos[i])
		}
	}
	return out
}

func idSet(videos []Video) map[string]struct{} {
	set := make(map[string]struct{}, len(videos))
	for i := range videos {
		if videos[i].ID != "" {
			set[videos[i].ID] = struct{}{}
		}
	}
	return set
}
