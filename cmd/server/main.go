// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package main is the entry point for the Forkcast server.
//
// Forkcast serves personalized restaurant recommendations: a user's
// feature vector is fetched through a Redis read-through cache, matched
// against a FAISS similarity index of restaurant embeddings, filtered
// to the H3 cells around the request coordinates via Postgres, then
// ranked, distance-capped and paginated.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, config.yaml and environment (Koanf v2)
//  2. Logging: zerolog with configured level and format
//  3. Candidate store: pgx pool against Postgres
//  4. Feature cache: Redis backend with circuit breaker
//  5. Similarity index: FAISS artifact loaded from disk
//  6. Cache pre-warm: best-effort batch load of all user vectors
//  7. HTTP server: Chi router with graceful shutdown
//
// A failed index load does not abort startup: the server comes up and
// fails closed, answering 503 on /recommend and /health/ready until an
// operator replaces the artifact and restarts.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in
// defaults. Common settings:
//
//	export POSTGRES_HOST=localhost
//	export POSTGRES_PASSWORD=secret
//	export REDIS_ADDR=localhost:6379
//	export MODEL_PATH=/var/lib/forkcast/restaurants.index
//	./forkcast
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits up to 10s for in-flight requests, then
// closes the cache, store and index.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forkcast/forkcast/internal/api"
	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/features"
	"github.com/forkcast/forkcast/internal/geo"
	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/recommend"
	"github.com/forkcast/forkcast/internal/simindex"
	"github.com/forkcast/forkcast/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger; configuration is not available yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_host", cfg.Database.Host).
		Str("cache_addr", cfg.Cache.Addr).
		Str("index_path", cfg.Index.Path).
		Int("dimension", cfg.Index.Dimension).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.New(ctx, cfg.Database, cfg.Index.Dimension)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer db.Close()
	logging.Info().Msg("Candidate store initialized")

	backend := features.NewRedisBackend(cfg.Cache)
	defer func() {
		if err := backend.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache backend")
		}
	}()
	if err := backend.Ping(ctx); err != nil {
		// The cache is a latency optimization, not a dependency.
		logging.Warn().Err(err).Msg("Redis unreachable at startup, serving from Postgres")
	}

	engine := simindex.New(cfg.Index.Dimension)
	defer engine.Close()
	if err := engine.Load(cfg.Index.Path); err != nil {
		logging.Error().Err(err).
			Str("path", cfg.Index.Path).
			Msg("Failed to load similarity index, serving 503 until restart")
	} else {
		logging.Info().Str("path", cfg.Index.Path).Msg("Similarity index loaded")
	}

	cache := features.NewCache(backend, db, cfg.Cache)

	var prewarmer api.PrewarmRunner
	if cfg.Cache.PrewarmEnabled {
		p := features.NewPrewarmer(backend, db, cfg.Cache.TTL, cfg.Cache.PrewarmBatchSize)
		warmed, err := p.Run(ctx)
		if err != nil {
			logging.Warn().Err(err).Int("warmed", warmed).Msg("Cache pre-warm incomplete")
		} else {
			logging.Info().Int("warmed", warmed).Msg("Cache pre-warm finished")
		}
		prewarmer = p
	}

	grid := geo.NewGrid(cfg.Geo.Resolution, cfg.Geo.RingRadius)

	pipeline := recommend.NewService(cache, engine, grid, db, cfg.Index.Overfetch)

	handler := api.NewHandler(cfg, pipeline, db, backend, engine, prewarmer)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}
