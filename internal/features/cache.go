// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package features

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/metrics"
	"github.com/forkcast/forkcast/internal/models"
)

// Source is the relational fallback for cache misses, implemented by the
// Postgres store.
type Source interface {
	FeatureVectorByUser(ctx context.Context, userID string) (models.FeatureVector, error)
}

// Cache is the read-through user feature cache.
//
// Lookup order: cache backend first (a hit never touches Postgres), then
// the relational store, then a best-effort TTL write-back. Two concurrent
// misses for the same user both write the same value; the race is benign
// and deliberately unsynchronized.
//
// All backend calls pass through a circuit breaker so a dead Redis stops
// costing a timeout per request and the cache degrades to store-only
// lookups until the backend recovers.
type Cache struct {
	backend Backend
	source  Source
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

const breakerName = "feature-cache"

// NewCache builds the read-through cache.
func NewCache(backend Backend, source Source, cfg config.CacheConfig) *Cache {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		// A miss is a normal outcome, not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Cache breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})

	return &Cache{
		backend: backend,
		source:  source,
		ttl:     cfg.TTL,
		breaker: breaker,
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// Get returns the feature vector for userID. Returns the store's
// ErrUserNotFound unchanged when no feature row exists anywhere.
func (c *Cache) Get(ctx context.Context, userID string) (models.FeatureVector, error) {
	if vector, ok := c.lookup(ctx, userID); ok {
		metrics.FeatureCacheHits.Inc()
		logging.Ctx(ctx).Debug().Str("user_id", userID).Msg("Feature cache hit")
		return vector, nil
	}

	metrics.FeatureCacheMisses.Inc()
	logging.Ctx(ctx).Debug().Str("user_id", userID).Msg("Feature cache miss")

	vector, err := c.source.FeatureVectorByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.writeBack(ctx, userID, vector)
	return vector, nil
}

// lookup queries the cache backend through the breaker. Backend trouble of
// any kind (miss, corrupt payload, breaker open, Redis down) reports a
// miss; the relational store is the source of truth.
func (c *Cache) lookup(ctx context.Context, userID string) (models.FeatureVector, bool) {
	payload, err := c.breaker.Execute(func() ([]byte, error) {
		return c.backend.Get(ctx, userID)
	})
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logging.Ctx(ctx).Debug().Err(err).Str("user_id", userID).Msg("Cache backend unavailable, falling back to store")
		}
		return nil, false
	}

	vector, err := DecodeVector(payload)
	if err != nil {
		metrics.FeatureCacheDecodeErrors.Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Discarding undecodable cache payload")
		return nil, false
	}
	return vector, true
}

// writeBack populates the cache after a miss. Failures are logged and
// swallowed; a cache write must never fail the request.
func (c *Cache) writeBack(ctx context.Context, userID string, vector models.FeatureVector) {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.backend.Set(ctx, userID, EncodeVector(vector), c.ttl)
	})
	if err != nil {
		metrics.FeatureCacheWriteErrors.Inc()
		logging.Ctx(ctx).Debug().Err(err).Str("user_id", userID).Msg("Best-effort cache write-back failed")
	}
}
