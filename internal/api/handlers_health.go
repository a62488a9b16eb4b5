// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"net/http"

	"github.com/forkcast/forkcast/internal/models"
)

// Root handles GET / with a minimal service banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Restaurant recommendation service",
	})
}

// HealthLive reports process liveness. It always returns 200 while the
// process can serve HTTP at all.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{Status: "alive"})
}

// HealthReady reports readiness to serve recommendations. The service
// is ready only when the similarity index is loaded and the relational
// store answers a ping. The cache is reported but does not gate
// readiness: a cold or down cache degrades latency, not correctness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	components := make(map[string]string, 3)

	indexReady := h.index != nil && h.index.Ready()
	if h.index != nil {
		components["index"] = h.index.State().String()
	} else {
		components["index"] = "unconfigured"
	}

	dbReady := h.db != nil && h.db.Ping(ctx) == nil
	if dbReady {
		components["database"] = "up"
	} else {
		components["database"] = "down"
	}

	if h.cache != nil && h.cache.Ping(ctx) == nil {
		components["cache"] = "up"
	} else {
		components["cache"] = "down"
	}

	status := "ready"
	code := http.StatusOK
	if !indexReady || !dbReady {
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, models.HealthStatus{
		Status:     status,
		IndexState: components["index"],
		Components: components,
	})
}
