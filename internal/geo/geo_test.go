// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package geo

import (
	"errors"
	"testing"
)

func TestCellOfDeterministic(t *testing.T) {
	g := NewGrid(9, 4)

	a, err := g.CellOf(40.0, -73.0)
	if err != nil {
		t.Fatalf("CellOf failed: %v", err)
	}
	b, err := g.CellOf(40.0, -73.0)
	if err != nil {
		t.Fatalf("CellOf failed: %v", err)
	}
	if a != b {
		t.Errorf("CellOf not deterministic: %q vs %q", a, b)
	}
	if a == "" {
		t.Error("expected non-empty cell identifier")
	}
}

func TestCellOfDistinguishesDistantPoints(t *testing.T) {
	g := NewGrid(9, 4)

	nyc, err := g.CellOf(40.7128, -74.0060)
	if err != nil {
		t.Fatalf("CellOf failed: %v", err)
	}
	bkk, err := g.CellOf(13.7563, 100.5018)
	if err != nil {
		t.Fatalf("CellOf failed: %v", err)
	}
	if nyc == bkk {
		t.Error("distant points must not share a resolution-9 cell")
	}
}

func TestCellOfInvalidCoordinates(t *testing.T) {
	g := NewGrid(9, 4)

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"latitude too high", 90.5, 0},
		{"latitude too low", -91, 0},
		{"longitude too high", 0, 180.5},
		{"longitude too low", 0, -181},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.CellOf(tt.lat, tt.lon)
			if !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("expected ErrInvalidCoordinate, got %v", err)
			}
		})
	}
}

func TestRingContainsCenter(t *testing.T) {
	g := NewGrid(9, 4)

	center, err := g.CellOf(40.0, -73.0)
	if err != nil {
		t.Fatalf("CellOf failed: %v", err)
	}

	for _, k := range []int{0, 1, 4} {
		ring, err := g.Ring(center, k)
		if err != nil {
			t.Fatalf("Ring(k=%d) failed: %v", k, err)
		}
		found := false
		for _, c := range ring {
			if c == center {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Ring(k=%d) does not contain center cell %s", k, center)
		}
	}
}

func TestRingSizeGrows(t *testing.T) {
	g := NewGrid(9, 4)

	center, err := g.CellOf(40.0, -73.0)
	if err != nil {
		t.Fatalf("CellOf failed: %v", err)
	}

	small, err := g.Ring(center, 1)
	if err != nil {
		t.Fatalf("Ring failed: %v", err)
	}
	large, err := g.Ring(center, 2)
	if err != nil {
		t.Fatalf("Ring failed: %v", err)
	}
	// A k-ring over hexagons holds 1+3k(k+1) cells away from pentagons.
	if len(small) != 7 {
		t.Errorf("expected 7 cells at k=1, got %d", len(small))
	}
	if len(large) != 19 {
		t.Errorf("expected 19 cells at k=2, got %d", len(large))
	}
}

func TestRingRejectsGarbage(t *testing.T) {
	g := NewGrid(9, 4)
	if _, err := g.Ring("not-a-cell", 1); err == nil {
		t.Error("expected error for malformed cell identifier")
	}
}

func TestSearchArea(t *testing.T) {
	g := NewGrid(9, 2)

	area, err := g.SearchArea(40.0, -73.0)
	if err != nil {
		t.Fatalf("SearchArea failed: %v", err)
	}
	if len(area) != 19 {
		t.Errorf("expected 19 cells for ring radius 2, got %d", len(area))
	}

	center, _ := g.CellOf(40.0, -73.0)
	found := false
	for _, c := range area {
		if c == center {
			found = true
		}
	}
	if !found {
		t.Error("search area must include the caller's own cell")
	}
}
