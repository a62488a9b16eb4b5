// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package store provides the Postgres-backed relational store: user
// feature rows and restaurant candidate records. Both tables are owned by
// the offline ingestion pipeline; this package only reads.
//
// All queries run under a per-query timeout on a bounded pgx pool. A
// request that cannot acquire a connection or complete in time surfaces
// ErrTimeout, which callers treat as transient (the request performs no
// mutation and is safe to retry).
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/metrics"
	"github.com/forkcast/forkcast/internal/models"
)

var (
	// ErrUserNotFound indicates no feature row exists for the user.
	ErrUserNotFound = errors.New("user not found")

	// ErrTimeout indicates a query or connection acquisition exceeded
	// its deadline. Transient; safe for the caller to retry.
	ErrTimeout = errors.New("store timeout")
)

// Store reads feature vectors and restaurant records from Postgres.
type Store struct {
	pool         *pgxpool.Pool
	dimension    int
	queryTimeout time.Duration

	featureColumns string // "feature_0, feature_1, ..." built once
}

// New opens a bounded connection pool against the configured Postgres
// instance and verifies connectivity.
func New(ctx context.Context, cfg config.DatabaseConfig, dimension int) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	// PoolSize persistent connections plus PoolOverflow headroom.
	poolCfg.MinConns = int32(cfg.PoolSize)
	poolCfg.MaxConns = int32(cfg.PoolSize + cfg.PoolOverflow)
	poolCfg.ConnConfig.ConnectTimeout = cfg.AcquireTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.AcquireTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logging.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("Postgres pool ready")

	return &Store{
		pool:           pool,
		dimension:      dimension,
		queryTimeout:   cfg.QueryTimeout,
		featureColumns: featureColumnList(dimension),
	}, nil
}

// featureColumnList builds the "feature_0, feature_1, ..." projection for
// the wide users table.
func featureColumnList(dimension int) string {
	var b strings.Builder
	for i := 0; i < dimension; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "feature_%d", i)
	}
	return b.String()
}

// classify maps low-level errors onto the package's error taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return classify(s.pool.Ping(ctx))
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// FeatureVectorByUser fetches the full feature row for a user. Returns
// ErrUserNotFound when no row exists.
func (s *Store) FeatureVectorByUser(ctx context.Context, userID string) (models.FeatureVector, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM users WHERE user_id = $1", s.featureColumns)

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		metrics.RecordDBQuery("feature_vector_by_user", time.Since(start), err)
		return nil, classify(fmt.Errorf("query feature row: %w", err))
	}
	defer rows.Close()

	if !rows.Next() {
		metrics.RecordDBQuery("feature_vector_by_user", time.Since(start), nil)
		if err := rows.Err(); err != nil {
			return nil, classify(fmt.Errorf("scan feature row: %w", err))
		}
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	values, err := rows.Values()
	metrics.RecordDBQuery("feature_vector_by_user", time.Since(start), err)
	if err != nil {
		return nil, classify(fmt.Errorf("decode feature row: %w", err))
	}

	vector := make(models.FeatureVector, 0, s.dimension)
	for i, v := range values {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("feature_%d has unexpected type %T", i, v)
		}
		vector = append(vector, float32(f))
	}
	return vector, nil
}

// RestaurantsByOrdinalsAndCells returns restaurant records whose ordinal
// index is in ordinals AND whose spatial cell is in cells. Empty input on
// either side short-circuits to an empty result without touching the
// database. Unknown or duplicate ordinals simply yield no extra rows.
func (s *Store) RestaurantsByOrdinalsAndCells(ctx context.Context, ordinals []int, cells []string) ([]models.RestaurantRecord, error) {
	if len(ordinals) == 0 || len(cells) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := `SELECT restaurant_id, "index", latitude, longitude, h3_index
		FROM restaurants
		WHERE "index" = ANY($1) AND h3_index = ANY($2)`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, ordinals, cells)
	if err != nil {
		metrics.RecordDBQuery("restaurants_by_ordinals_cells", time.Since(start), err)
		return nil, classify(fmt.Errorf("query candidates: %w", err))
	}
	defer rows.Close()

	var records []models.RestaurantRecord
	for rows.Next() {
		var rec models.RestaurantRecord
		if err := rows.Scan(&rec.ID, &rec.Ordinal, &rec.Latitude, &rec.Longitude, &rec.CellID); err != nil {
			metrics.RecordDBQuery("restaurants_by_ordinals_cells", time.Since(start), err)
			return nil, classify(fmt.Errorf("scan candidate row: %w", err))
		}
		records = append(records, rec)
	}
	metrics.RecordDBQuery("restaurants_by_ordinals_cells", time.Since(start), rows.Err())
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate candidate rows: %w", err))
	}
	return records, nil
}

// UserFeatures pairs a user identifier with its feature vector, used by
// the cache pre-warmer.
type UserFeatures struct {
	UserID string
	Vector models.FeatureVector
}

// UserFeaturePage returns up to limit users ordered by user_id, starting
// strictly after afterUserID (empty string starts from the beginning).
// Keyset pagination keeps pre-warm memory bounded regardless of table size.
func (s *Store) UserFeaturePage(ctx context.Context, afterUserID string, limit int) ([]UserFeatures, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf(
		"SELECT user_id, %s FROM users WHERE user_id > $1 ORDER BY user_id LIMIT $2",
		s.featureColumns,
	)

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, afterUserID, limit)
	if err != nil {
		metrics.RecordDBQuery("user_feature_page", time.Since(start), err)
		return nil, classify(fmt.Errorf("query user page: %w", err))
	}
	defer rows.Close()

	var page []UserFeatures
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			metrics.RecordDBQuery("user_feature_page", time.Since(start), err)
			return nil, classify(fmt.Errorf("decode user row: %w", err))
		}

		userID, ok := values[0].(string)
		if !ok {
			return nil, fmt.Errorf("user_id has unexpected type %T", values[0])
		}
		vector := make(models.FeatureVector, 0, s.dimension)
		for i, v := range values[1:] {
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("feature_%d has unexpected type %T", i, v)
			}
			vector = append(vector, float32(f))
		}
		page = append(page, UserFeatures{UserID: userID, Vector: vector})
	}
	metrics.RecordDBQuery("user_feature_page", time.Since(start), rows.Err())
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate user rows: %w", err))
	}
	return page, nil
}
