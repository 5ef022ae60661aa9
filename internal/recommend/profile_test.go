// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package recommend

import (
	"math"
	"reflect"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildProfile_Weights(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig().Profile
	src := &Source{
		History: []Video{
			{ID: "1", Title: "Pasta Pasta recipe"},
			{ID: "2", Title: "pasta sauce"},
		},
		Searches:      []string{"ramen"},
		Subscriptions: []Channel{{ID: "c", Name: "Chef Pat"}},
	}

	p := BuildProfile(src, cfg)

	// Entry 0 of 2: factor 1 + 2/2 = 2. Entry 1: 1 + 1/2 = 1.5.
	if !approx(p["pasta"], 2.0+1.5) {
		t.Errorf("pasta = %f, want 3.5", p["pasta"])
	}
	if !approx(p["recipe"], 2.0) {
		t.Errorf("recipe = %f, want 2.0", p["recipe"])
	}
	if !approx(p["sauce"], 1.5) {
		t.Errorf("sauce = %f, want 1.5", p["sauce"])
	}
	// Single search: 1.5 * (1 + 1/1) = 3.
	if !approx(p["ramen"], 3.0) {
		t.Errorf("ramen = %f, want 3.0", p["ramen"])
	}
	if !approx(p["chef pat"], 0.5) {
		t.Errorf("chef pat = %f, want 0.5", p["chef pat"])
	}
}

func TestBuildProfile_Window(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig().Profile
	cfg.HistoryWindow = 1

	src := &Source{History: []Video{{ID: "1", Title: "recent"}, {ID: "2", Title: "older"}}}
	p := BuildProfile(src, cfg)

	if _, ok := p["older"]; ok {
		t.Error("entry outside the window contributed to the profile")
	}
	if _, ok := p["recent"]; !ok {
		t.Error("entry inside the window missing from the profile")
	}
}

func TestBuildProfile_Pure(t *testing.T) {
	t.Parallel()

	src := &Source{
		History:  []Video{{ID: "1", Title: "jazz piano"}},
		Searches: []string{"lofi beats"},
	}
	a := BuildProfile(src, DefaultConfig().Profile)
	b := BuildProfile(src, DefaultConfig().Profile)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("BuildProfile not deterministic: %v vs %v", a, b)
	}
}

func TestProfile_TopKeywords(t *testing.T) {
	t.Parallel()

	p := Profile{"b": 2, "a": 2, "c": 5, "d": 1}

	tests := []struct {
		n    int
		want []string
	}{
		{n: 0, want: nil},
		{n: 1, want: []string{"c"}},
		{n: 3, want: []string{"c", "a", "b"}},
		{n: 10, want: []string{"c", "a", "b", "d"}},
	}

	for _, tt := range tests {
		got := p.TopKeywords(tt.n)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("TopKeywords(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestProfileIndex_Relevance(t *testing.T) {
	t.Parallel()

	idx := Profile{"pasta": 3, "sauce": 1, "ramen": 2}.Index()

	v := Video{ID: "x", Title: "Pasta with pasta sauce"}
	if got := idx.Relevance(&v); !approx(got, 4) {
		t.Errorf("Relevance() = %f, want 4 (distinct keywords)", got)
	}

	none := Video{ID: "y", Title: "Gaming"}
	if got := idx.Relevance(&none); got != 0 {
		t.Errorf("Relevance() = %f, want 0", got)
	}
}
