// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package config provides centralized configuration for all Forkcast
// components: the HTTP server, the Postgres candidate store, the Redis
// feature cache, the similarity index and the geospatial filter.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment
// variables and config files.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Index    IndexConfig    `koanf:"index"`
	Geo      GeoConfig      `koanf:"geo"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"` // per-request timeout budget
}

// DatabaseConfig holds Postgres connection settings for the relational
// store that owns user feature rows and restaurant records.
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`

	// PoolSize is the number of pooled connections kept open.
	// PoolOverflow is the extra headroom allowed under burst load; the
	// effective pgx MaxConns is PoolSize + PoolOverflow.
	PoolSize       int           `koanf:"pool_size"`
	PoolOverflow   int           `koanf:"pool_overflow"`
	AcquireTimeout time.Duration `koanf:"acquire_timeout"`
	QueryTimeout   time.Duration `koanf:"query_timeout"`
}

// DSN returns the Postgres connection string for pgx.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// CacheConfig holds Redis settings for the user feature cache.
type CacheConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`

	// TTL bounds the staleness of cached feature vectors relative to
	// the relational store.
	TTL     time.Duration `koanf:"ttl"`
	Timeout time.Duration `koanf:"timeout"`

	// PrewarmEnabled runs the startup batch job that loads all known
	// user vectors into the cache before traffic is admitted.
	PrewarmEnabled   bool `koanf:"prewarm_enabled"`
	PrewarmBatchSize int  `koanf:"prewarm_batch_size"`
}

// IndexConfig holds settings for the precomputed similarity index.
type IndexConfig struct {
	// Path is the location of the FAISS artifact on disk.
	Path string `koanf:"path"`

	// Dimension is the feature vector dimension the index was built
	// with. Query vectors must match exactly.
	Dimension int `koanf:"dimension"`

	// Overfetch is the number of nearest neighbors requested per query.
	// It is deliberately larger than any page size because the
	// geospatial filter discards candidates outside the search ring.
	Overfetch int `koanf:"overfetch"`
}

// GeoConfig holds hex-grid settings for geospatial candidate restriction.
// Resolution and ring radius trade recall against candidate query cost.
type GeoConfig struct {
	Resolution int `koanf:"resolution"`
	RingRadius int `koanf:"ring_radius"`
}

// APIConfig holds request parameter defaults and limits.
type APIConfig struct {
	DefaultPageSize    int `koanf:"default_page_size"`
	MaxPageSize        int `koanf:"max_page_size"`
	DefaultMaxDistance int `koanf:"default_max_distance"` // meters
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would make the
// service misbehave at runtime rather than fail fast at startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.PoolSize < 1 {
		return fmt.Errorf("database.pool_size must be positive, got %d", c.Database.PoolSize)
	}
	if c.Database.PoolOverflow < 0 {
		return fmt.Errorf("database.pool_overflow must not be negative, got %d", c.Database.PoolOverflow)
	}
	if c.Cache.Addr == "" {
		return fmt.Errorf("cache.addr is required")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.PrewarmBatchSize < 1 {
		return fmt.Errorf("cache.prewarm_batch_size must be positive, got %d", c.Cache.PrewarmBatchSize)
	}
	if c.Index.Path == "" {
		return fmt.Errorf("index.path is required")
	}
	if c.Index.Dimension < 1 {
		return fmt.Errorf("index.dimension must be positive, got %d", c.Index.Dimension)
	}
	if c.Index.Overfetch < 1 {
		return fmt.Errorf("index.overfetch must be positive, got %d", c.Index.Overfetch)
	}
	// H3 resolutions are 0..15.
	if c.Geo.Resolution < 0 || c.Geo.Resolution > 15 {
		return fmt.Errorf("geo.resolution must be in [0,15], got %d", c.Geo.Resolution)
	}
	if c.Geo.RingRadius < 0 {
		return fmt.Errorf("geo.ring_radius must not be negative, got %d", c.Geo.RingRadius)
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must not be below api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.API.DefaultMaxDistance < 1 {
		return fmt.Errorf("api.default_max_distance must be positive, got %d", c.API.DefaultMaxDistance)
	}
	return nil
}
