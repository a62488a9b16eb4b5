// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package recommend

import (
	"context"
	"fmt"

	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/models"
)

// Service composes the recommendation pipeline: feature lookup,
// similarity search, spatial filtering, candidate fetch, ranking.
type Service struct {
	features   FeatureProvider
	index      Searcher
	grid       SpatialIndex
	candidates CandidateStore
	overfetch  int
}

// NewService wires the pipeline stages together. overfetch is the k
// passed to the similarity index; it should comfortably exceed the
// largest page size so spatial filtering leaves enough survivors.
func NewService(features FeatureProvider, index Searcher, grid SpatialIndex, candidates CandidateStore, overfetch int) *Service {
	if overfetch < 1 {
		overfetch = 1
	}
	return &Service{
		features:   features,
		index:      index,
		grid:       grid,
		candidates: candidates,
		overfetch:  overfetch,
	}
}

// Recommend runs the full pipeline for one request. Errors from the
// stages pass through unwrapped where callers map them to HTTP status
// codes (store.ErrUserNotFound, simindex.ErrNotReady,
// geo.ErrInvalidCoordinate, store.ErrTimeout).
func (s *Service) Recommend(ctx context.Context, req Request) (*models.RecommendResponse, error) {
	if req.PageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be positive", ErrInvalidParameter)
	}
	if req.MaxDisplacement < 1 {
		return nil, fmt.Errorf("%w: distance cap must be positive", ErrInvalidParameter)
	}

	vector, err := s.features.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	neighbors, err := s.index.Query(vector, s.overfetch)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return &models.RecommendResponse{Restaurants: []models.CandidateResult{}}, nil
	}

	cells, err := s.grid.SearchArea(req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	ordinals := make([]int, len(neighbors))
	for i, n := range neighbors {
		ordinals[i] = n.Ordinal
	}

	records, err := s.candidates.RestaurantsByOrdinalsAndCells(ctx, ordinals, cells)
	if err != nil {
		return nil, err
	}

	results := rank(neighbors, records, req.Latitude, req.Longitude, req.MaxDisplacement, req.Sort, req.PageSize)

	logging.Ctx(ctx).Debug().
		Str("user_id", req.UserID).
		Int("neighbors", len(neighbors)).
		Int("cells", len(cells)).
		Int("candidates", len(records)).
		Int("results", len(results)).
		Msg("Recommendation pipeline completed")

	return &models.RecommendResponse{Restaurants: results}, nil
}
