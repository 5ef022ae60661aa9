// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Bucket boundaries in seconds.
const (
	shortLimit  = 240
	mediumLimit = 1200
)

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts a PT#H#M#S duration into seconds. Any subset of
// the components may be present. Malformed or overflowing input yields 0.
func ParseDuration(s string) int {
	m := isoDuration.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}

	total := 0
	for i, unit := range [...]int{3600, 60, 1} {
		part := m[i+1]
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > math.MaxInt/unit || n*unit > math.MaxInt-total {
			return 0
		}
		total += n * unit
	}
	return total
}

// ClassifyDuration buckets a duration in seconds. Zero (or negative) is
// unknown rather than short, so callers can exempt it from penalties.
func ClassifyDuration(seconds int) DurationBucket {
	switch {
	case seconds <= 0:
		return DurationUnknown
	case seconds < shortLimit:
		return DurationShort
	case seconds <= mediumLimit:
		return DurationMedium
	default:
		return DurationLong
	}
}
