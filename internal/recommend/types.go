// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package recommend

import (
	"context"
	"errors"

	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/simindex"
)

// ErrInvalidParameter is returned when a request carries values the
// pipeline cannot act on (non-positive page size, negative distance cap).
var ErrInvalidParameter = errors.New("invalid request parameter")

// SortKey selects the ordering applied to the ranked candidate list.
type SortKey int

const (
	// SortBySimilarity orders candidates by ascending feature-space
	// difference. This is the default.
	SortBySimilarity SortKey = iota

	// SortByDistance orders candidates by ascending geographic
	// displacement from the request origin.
	SortByDistance
)

// Request is a fully parsed recommendation query. Boundary validation
// (coordinate ranges, parameter types) happens in the API layer; the
// pipeline only guards values it would otherwise misbehave on.
type Request struct {
	UserID          string
	Latitude        float64
	Longitude       float64
	PageSize        int
	MaxDisplacement int
	Sort            SortKey
}

// FeatureProvider yields the feature vector for a user, typically the
// read-through cache backed by Postgres.
type FeatureProvider interface {
	Get(ctx context.Context, userID string) (models.FeatureVector, error)
}

// Searcher answers k-nearest-neighbor queries over the restaurant
// embedding space.
type Searcher interface {
	Query(vector []float32, k int) ([]simindex.Neighbor, error)
}

// SpatialIndex resolves a request origin into the set of grid cells
// considered geographically relevant.
type SpatialIndex interface {
	SearchArea(lat, lon float64) ([]string, error)
}

// CandidateStore fetches restaurant records matching both the index
// ordinals and the spatial cell set.
type CandidateStore interface {
	RestaurantsByOrdinalsAndCells(ctx context.Context, ordinals []int, cells []string) ([]models.RestaurantRecord, error)
}
