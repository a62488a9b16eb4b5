// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/recommend"
)

// recommendParams carries the parsed query parameters of a
// recommendation request. Both GET and POST use the same parameters;
// POST additionally accepts them as form values.
type recommendParams struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
	Size      int     `validate:"min=1"`
	MaxDist   int     `validate:"min=1"`
	SortDist  int     `validate:"oneof=0 1"`
}

// parseRecommendParams reads latitude/longitude (required) and the
// optional size, max_dis and sort_dis parameters, applying configured
// defaults and the page size ceiling.
func parseRecommendParams(r *http.Request, cfg config.APIConfig) (recommendParams, string) {
	params := recommendParams{
		Size:    cfg.DefaultPageSize,
		MaxDist: cfg.DefaultMaxDistance,
	}

	get := func(key string) string {
		// FormValue covers both the query string and POST form bodies.
		return r.FormValue(key)
	}

	latStr := get("latitude")
	if latStr == "" {
		return params, "latitude is required"
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return params, "latitude must be a number"
	}
	params.Latitude = lat

	lonStr := get("longitude")
	if lonStr == "" {
		return params, "longitude is required"
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return params, "longitude must be a number"
	}
	params.Longitude = lon

	if v := get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return params, "size must be an integer"
		}
		params.Size = size
	}
	if params.Size > cfg.MaxPageSize {
		params.Size = cfg.MaxPageSize
	}

	if v := get("max_dis"); v != "" {
		maxDist, err := strconv.Atoi(v)
		if err != nil {
			return params, "max_dis must be an integer"
		}
		params.MaxDist = maxDist
	}

	if v := get("sort_dis"); v != "" {
		sortDist, err := strconv.Atoi(v)
		if err != nil {
			return params, "sort_dis must be 0 or 1"
		}
		params.SortDist = sortDist
	}

	return params, ""
}

// Recommend handles GET and POST /recommend/{user_id}. It returns a
// ranked page of restaurants near the given coordinates, personalized
// by the user's feature vector.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "user_id is required", nil)
		return
	}

	params, parseErr := parseRecommendParams(r, h.cfg.API)
	if parseErr != "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", parseErr, nil)
		return
	}

	if apiErr := validateRequest(&params); apiErr != nil {
		respondError(w, http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, nil)
		return
	}

	sortKey := recommend.SortBySimilarity
	if params.SortDist == 1 {
		sortKey = recommend.SortByDistance
	}

	req := recommend.Request{
		UserID:          userID,
		Latitude:        params.Latitude,
		Longitude:       params.Longitude,
		PageSize:        params.Size,
		MaxDisplacement: params.MaxDist,
		Sort:            sortKey,
	}

	ctx := r.Context()
	if h.cfg.Server.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Server.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := h.recommender.Recommend(ctx, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	logging.Ctx(ctx).Debug().
		Str("user_id", sanitizeLogValue(userID)).
		Int("results", len(resp.Restaurants)).
		Dur("elapsed", time.Since(start)).
		Msg("Recommendation request served")

	respondJSON(w, http.StatusOK, resp)
}
