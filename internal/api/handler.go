// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"context"

	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
	"github.com/forkcast/forkcast/internal/simindex"
)

// Recommender runs the full recommendation pipeline for one request.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*models.RecommendResponse, error)
}

// Pinger reports whether a backing component is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexStatus exposes the similarity index lifecycle for readiness checks.
type IndexStatus interface {
	State() simindex.State
	Ready() bool
}

// PrewarmRunner executes one cache pre-warm pass.
type PrewarmRunner interface {
	Run(ctx context.Context) (int, error)
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	cfg         *config.Config
	recommender Recommender
	db          Pinger
	cache       Pinger
	index       IndexStatus
	prewarmer   PrewarmRunner
}

// NewHandler creates a Handler. db, cache and prewarmer may be nil in
// tests; the health and admin handlers treat nil as "not configured".
func NewHandler(cfg *config.Config, recommender Recommender, db, cache Pinger, index IndexStatus, prewarmer PrewarmRunner) *Handler {
	return &Handler{
		cfg:         cfg,
		recommender: recommender,
		db:          db,
		cache:       cache,
		index:       index,
		prewarmer:   prewarmer,
	}
}
