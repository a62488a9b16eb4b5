// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package models defines the data structures shared across the serving
// pipeline and the API surface.
package models

// FeatureVector is a user's fixed-dimension embedding produced by the
// offline pipeline. Element order is significant and must match the
// dimension the similarity index was trained with.
type FeatureVector []float32

// RestaurantRecord is a restaurant row from the relational store.
//
// Ordinal is the row position of this restaurant in the trained similarity
// index. It is assigned once at index-build time and never renumbered;
// the candidate store and the similarity index must agree on this mapping
// for results to be correct.
type RestaurantRecord struct {
	ID        string
	Ordinal   int
	Latitude  float64
	Longitude float64
	CellID    string
}

// CandidateResult is one ranked recommendation. It exists only within a
// single request.
type CandidateResult struct {
	// ID is the restaurant identifier.
	ID string `json:"id"`

	// Difference is the similarity distance reported by the index
	// (lower = more similar).
	Difference float64 `json:"difference"`

	// Displacement is the great-circle distance from the caller's
	// position in meters, rounded to the nearest meter.
	Displacement int `json:"displacement"`
}

// RecommendResponse is the response body of /recommend/{user_id}.
// Restaurants is always present, possibly empty.
type RecommendResponse struct {
	Restaurants []CandidateResult `json:"restaurants"`
}
