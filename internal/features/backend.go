// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package features provides the read-through user feature cache: Redis in
// front, Postgres behind, with a TTL bounding staleness. It also houses
// the startup cache pre-warmer.
package features

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forkcast/forkcast/internal/config"
)

// ErrCacheMiss indicates the key is absent from the cache backend.
var ErrCacheMiss = errors.New("cache miss")

// Backend is the key-value cache surface the feature cache needs. Redis
// implements it in production; tests substitute an in-memory fake.
type Backend interface {
	// Get returns the payload for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes key with a TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetBatch writes all entries with a TTL in one pipelined round trip.
	SetBatch(ctx context.Context, entries map[string][]byte, ttl time.Duration) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}

// RedisBackend implements Backend on a shared go-redis client. The client
// is safe for concurrent use without external locking.
type RedisBackend struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisBackend connects a Redis client using the cache configuration.
func NewRedisBackend(cfg config.CacheConfig) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	return &RedisBackend{client: client, timeout: cfg.Timeout}
}

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	payload, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return payload, nil
}

// Set implements Backend.
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// SetBatch implements Backend using a single pipeline round trip.
func (b *RedisBackend) SetBatch(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	_, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range entries {
			pipe.Set(ctx, key, value, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis pipelined set (%d keys): %w", len(entries), err)
	}
	return nil
}

// Ping implements Backend.
func (b *RedisBackend) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
