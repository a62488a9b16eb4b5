// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"errors"
	"net/http"

	"github.com/forkcast/forkcast/internal/geo"
	"github.com/forkcast/forkcast/internal/recommend"
	"github.com/forkcast/forkcast/internal/simindex"
	"github.com/forkcast/forkcast/internal/store"
)

// writeDomainError maps pipeline errors to HTTP status codes and error
// codes. Unknown errors become a generic 500 without leaking internals.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "USER_NOT_FOUND",
			"No feature vector exists for this user", nil)
	case errors.Is(err, simindex.ErrNotReady):
		respondError(w, http.StatusServiceUnavailable, "INDEX_NOT_READY",
			"Similarity index is not ready to serve queries", err)
	case errors.Is(err, store.ErrTimeout):
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE",
			"Candidate store did not respond in time", err)
	case errors.Is(err, geo.ErrInvalidCoordinate):
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"Coordinates are outside the valid range", nil)
	case errors.Is(err, recommend.ErrInvalidParameter):
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", err)
	}
}
