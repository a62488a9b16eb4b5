// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"context"
	"errors"
	"time"

	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
	"github.com/forkcast/forkcast/internal/simindex"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:    "127.0.0.1",
			Port:    8000,
			Timeout: 10 * time.Second,
		},
		API: config.APIConfig{
			DefaultPageSize:    20,
			MaxPageSize:        100,
			DefaultMaxDistance: 5000,
		},
		Security: config.SecurityConfig{
			RateLimitDisabled: true,
		},
	}
}

type fakeRecommender struct {
	resp    *models.RecommendResponse
	err     error
	calls   int
	lastReq recommend.Request
}

func (f *fakeRecommender) Recommend(_ context.Context, req recommend.Request) (*models.RecommendResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &models.RecommendResponse{Restaurants: []models.CandidateResult{}}, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error {
	return f.err
}

type fakeIndexStatus struct {
	state simindex.State
}

func (f *fakeIndexStatus) State() simindex.State {
	return f.state
}

func (f *fakeIndexStatus) Ready() bool {
	return f.state == simindex.StateReady
}

type fakePrewarmer struct {
	warmed int
	err    error
	calls  int
}

func (f *fakePrewarmer) Run(context.Context) (int, error) {
	f.calls++
	return f.warmed, f.err
}

var errPingDown = errors.New("connection refused")

func newTestHandler(rec Recommender) *Handler {
	return NewHandler(
		testConfig(),
		rec,
		&fakePinger{},
		&fakePinger{},
		&fakeIndexStatus{state: simindex.StateReady},
		&fakePrewarmer{},
	)
}
