// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package recommend

import (
	"math"
	"testing"

	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/simindex"
)

const (
	originLat = 40.0
	originLon = -74.0

	// Roughly 111195 meters per degree of latitude.
	degPerMeter = 1.0 / 111195.0
)

// recordAt places a restaurant due north of the origin at approximately
// the given displacement in meters.
func recordAt(id string, ordinal int, meters float64) models.RestaurantRecord {
	return models.RestaurantRecord{
		ID:        id,
		Ordinal:   ordinal,
		Latitude:  originLat + meters*degPerMeter,
		Longitude: originLon,
		CellID:    "8928308280fffff",
	}
}

func ids(results []models.CandidateResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestRankOrdersBySimilarityByDefault(t *testing.T) {
	neighbors := []simindex.Neighbor{
		{Ordinal: 1, Distance: 0.5},
		{Ordinal: 2, Distance: 1.5},
	}
	records := []models.RestaurantRecord{
		recordAt("r2", 2, 200),
		recordAt("r1", 1, 800),
	}

	results := rank(neighbors, records, originLat, originLon, 5000, SortBySimilarity, 20)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "r1" || results[1].ID != "r2" {
		t.Errorf("expected similarity order [r1 r2], got %v", ids(results))
	}
	if results[0].Difference != 0.5 {
		t.Errorf("expected difference 0.5, got %v", results[0].Difference)
	}
}

func TestRankOrdersByDisplacementWhenRequested(t *testing.T) {
	// r1 is the closer match in feature space but the farther one
	// geographically, so distance sort must flip the order.
	neighbors := []simindex.Neighbor{
		{Ordinal: 1, Distance: 0.5},
		{Ordinal: 2, Distance: 1.5},
	}
	records := []models.RestaurantRecord{
		recordAt("r1", 1, 800),
		recordAt("r2", 2, 200),
	}

	results := rank(neighbors, records, originLat, originLon, 5000, SortByDistance, 20)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "r2" || results[1].ID != "r1" {
		t.Errorf("expected distance order [r2 r1], got %v", ids(results))
	}
	if results[0].Displacement >= results[1].Displacement {
		t.Errorf("displacements not ascending: %d then %d",
			results[0].Displacement, results[1].Displacement)
	}
}

func TestRankAppliesDistanceCap(t *testing.T) {
	neighbors := []simindex.Neighbor{
		{Ordinal: 1, Distance: 0.5},
		{Ordinal: 2, Distance: 1.5},
	}
	records := []models.RestaurantRecord{
		recordAt("r1", 1, 800),
		recordAt("r2", 2, 200),
	}

	results := rank(neighbors, records, originLat, originLon, 100, SortBySimilarity, 20)

	if len(results) != 0 {
		t.Errorf("expected no results inside a 100m cap, got %v", ids(results))
	}

	results = rank(neighbors, records, originLat, originLon, 500, SortBySimilarity, 20)
	if len(results) != 1 || results[0].ID != "r2" {
		t.Errorf("expected only r2 inside a 500m cap, got %v", ids(results))
	}
}

func TestRankSkipsNeighborsOutsideCellSet(t *testing.T) {
	neighbors := []simindex.Neighbor{
		{Ordinal: 1, Distance: 0.5},
		{Ordinal: 7, Distance: 0.9}, // no matching record
	}
	records := []models.RestaurantRecord{recordAt("r1", 1, 100)}

	results := rank(neighbors, records, originLat, originLon, 5000, SortBySimilarity, 20)

	if len(results) != 1 || results[0].ID != "r1" {
		t.Errorf("expected only r1, got %v", ids(results))
	}
}

func TestRankFirstRecordWinsOnDuplicateOrdinal(t *testing.T) {
	neighbors := []simindex.Neighbor{{Ordinal: 1, Distance: 0.5}}
	records := []models.RestaurantRecord{
		recordAt("first", 1, 100),
		recordAt("second", 1, 100),
	}

	results := rank(neighbors, records, originLat, originLon, 5000, SortBySimilarity, 20)

	if len(results) != 1 || results[0].ID != "first" {
		t.Errorf("expected the first record to win, got %v", ids(results))
	}
}

func TestRankTruncatesToPageSize(t *testing.T) {
	var neighbors []simindex.Neighbor
	var records []models.RestaurantRecord
	for i := 0; i < 10; i++ {
		neighbors = append(neighbors, simindex.Neighbor{Ordinal: i, Distance: float32(i)})
		records = append(records, recordAt("r", i, 100))
	}

	results := rank(neighbors, records, originLat, originLon, 5000, SortBySimilarity, 3)

	if len(results) != 3 {
		t.Errorf("expected page of 3, got %d", len(results))
	}
	// Truncation keeps the best matches.
	if results[0].Difference != 0 || results[2].Difference != 2 {
		t.Errorf("truncation kept the wrong candidates: %+v", results)
	}
}

func TestRankSkipsNonFiniteCoordinates(t *testing.T) {
	neighbors := []simindex.Neighbor{
		{Ordinal: 1, Distance: 0.5},
		{Ordinal: 2, Distance: 0.9},
	}
	broken := recordAt("broken", 1, 100)
	broken.Latitude = math.NaN()
	records := []models.RestaurantRecord{broken, recordAt("ok", 2, 100)}

	results := rank(neighbors, records, originLat, originLon, 5000, SortBySimilarity, 20)

	if len(results) != 1 || results[0].ID != "ok" {
		t.Errorf("expected the NaN record to be dropped, got %v", ids(results))
	}
}

func TestRankStableForEqualKeys(t *testing.T) {
	// Identical differences keep similarity order from the index.
	neighbors := []simindex.Neighbor{
		{Ordinal: 1, Distance: 1.0},
		{Ordinal: 2, Distance: 1.0},
		{Ordinal: 3, Distance: 1.0},
	}
	records := []models.RestaurantRecord{
		recordAt("a", 1, 100),
		recordAt("b", 2, 100),
		recordAt("c", 3, 100),
	}

	results := rank(neighbors, records, originLat, originLon, 5000, SortBySimilarity, 20)

	got := ids(results)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected stable order %v, got %v", want, got)
		}
	}
}

func TestRankEmptyInputs(t *testing.T) {
	if got := rank(nil, nil, originLat, originLon, 5000, SortBySimilarity, 20); len(got) != 0 {
		t.Errorf("expected empty result for empty inputs, got %v", got)
	}
	if got := rank([]simindex.Neighbor{{Ordinal: 1}}, nil, originLat, originLon, 5000, SortBySimilarity, 20); len(got) != 0 {
		t.Errorf("expected empty result with no records, got %v", got)
	}
}
