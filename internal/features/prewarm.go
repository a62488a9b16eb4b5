// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package features

import (
	"context"
	"fmt"
	"time"

	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/metrics"
	"github.com/forkcast/forkcast/internal/store"
)

// Pager supplies user feature rows in bounded, keyset-paginated batches,
// implemented by the Postgres store.
type Pager interface {
	UserFeaturePage(ctx context.Context, afterUserID string, limit int) ([]store.UserFeatures, error)
}

// Prewarmer loads all known user feature vectors into the cache backend
// before traffic is admitted, so the first wave of requests does not
// stampede the relational store.
//
// Pre-warming is strictly best-effort: any failure is logged as a warning
// and the service starts anyway, degrading to lazy loading through the
// read-through cache.
type Prewarmer struct {
	backend   Backend
	pages     Pager
	ttl       time.Duration
	batchSize int
}

// NewPrewarmer builds a pre-warmer writing entries with the standard TTL.
func NewPrewarmer(backend Backend, pages Pager, ttl time.Duration, batchSize int) *Prewarmer {
	return &Prewarmer{
		backend:   backend,
		pages:     pages,
		ttl:       ttl,
		batchSize: batchSize,
	}
}

// Run scans the users table in batches and writes each batch with one
// pipelined round trip. Returns the number of users written and the first
// error encountered; the caller logs the error and continues startup.
func (p *Prewarmer) Run(ctx context.Context) (int, error) {
	start := time.Now()
	warmed := 0
	after := ""

	for {
		page, err := p.pages.UserFeaturePage(ctx, after, p.batchSize)
		if err != nil {
			metrics.PrewarmBatchErrors.Inc()
			return warmed, fmt.Errorf("read user page after %q: %w", after, err)
		}
		if len(page) == 0 {
			break
		}

		entries := make(map[string][]byte, len(page))
		for _, u := range page {
			entries[u.UserID] = EncodeVector(u.Vector)
		}
		if err := p.backend.SetBatch(ctx, entries, p.ttl); err != nil {
			metrics.PrewarmBatchErrors.Inc()
			return warmed, fmt.Errorf("write batch of %d after %q: %w", len(entries), after, err)
		}

		warmed += len(page)
		metrics.PrewarmedUsers.Add(float64(len(page)))
		after = page[len(page)-1].UserID

		if len(page) < p.batchSize {
			break
		}
	}

	logging.Info().
		Int("users", warmed).
		Dur("elapsed", time.Since(start)).
		Msg("Cache pre-warm complete")
	return warmed, nil
}
