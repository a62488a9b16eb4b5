// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"net/http"

	"github.com/forkcast/forkcast/internal/logging"
)

// TriggerPrewarm handles POST /admin/prewarm, running one cache
// pre-warm pass on demand. Pre-warming is best-effort: a partial run
// still returns 200 with the count of users actually warmed.
func (h *Handler) TriggerPrewarm(w http.ResponseWriter, r *http.Request) {
	if h.prewarmer == nil {
		respondError(w, http.StatusServiceUnavailable, "PREWARM_UNAVAILABLE",
			"Cache pre-warming is not configured", nil)
		return
	}

	warmed, err := h.prewarmer.Run(r.Context())
	status := "complete"
	if err != nil {
		status = "partial"
		logging.Ctx(r.Context()).Warn().Err(err).
			Int("warmed", warmed).
			Msg("Operator-triggered pre-warm finished with errors")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": status,
		"warmed": warmed,
	})
}
