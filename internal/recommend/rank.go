// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package recommend

import (
	"math"
	"sort"

	"github.com/forkcast/forkcast/internal/geo"
	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/simindex"
)

// rank joins index neighbors with fetched restaurant records, computes
// the geographic displacement of each survivor from the request origin,
// drops everything beyond the distance cap, orders by the requested key
// and truncates to one page.
//
// Neighbors arrive in ascending-difference order from the index and
// that order is the tie-break for equal sort keys, so the result is
// deterministic for a fixed index artifact.
func rank(neighbors []simindex.Neighbor, records []models.RestaurantRecord, originLat, originLon float64, maxDisplacement int, key SortKey, pageSize int) []models.CandidateResult {
	if len(neighbors) == 0 || len(records) == 0 {
		return []models.CandidateResult{}
	}

	// First record wins when the store returns duplicate ordinals.
	byOrdinal := make(map[int]models.RestaurantRecord, len(records))
	for _, rec := range records {
		if _, ok := byOrdinal[rec.Ordinal]; !ok {
			byOrdinal[rec.Ordinal] = rec
		}
	}

	results := make([]models.CandidateResult, 0, len(neighbors))
	for _, n := range neighbors {
		rec, ok := byOrdinal[n.Ordinal]
		if !ok {
			continue // outside the spatial cell set
		}
		if !finiteCoordinate(rec.Latitude, rec.Longitude) {
			continue
		}
		displacement := geo.DisplacementMeters(originLat, originLon, rec.Latitude, rec.Longitude)
		if displacement > maxDisplacement {
			continue
		}
		results = append(results, models.CandidateResult{
			ID:           rec.ID,
			Difference:   float64(n.Distance),
			Displacement: displacement,
		})
	}

	switch key {
	case SortByDistance:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Displacement < results[j].Displacement
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Difference < results[j].Difference
		})
	}

	if len(results) > pageSize {
		results = results[:pageSize]
	}
	return results
}

func finiteCoordinate(lat, lon float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) &&
		!math.IsNaN(lon) && !math.IsInf(lon, 0)
}
