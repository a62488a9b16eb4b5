// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package simindex wraps the precomputed FAISS nearest-neighbor index over
// the restaurant embedding space. The artifact is trained offline; this
// package only loads it and serves read-only queries.
//
// The engine carries an explicit lifecycle state machine
// {Unloaded, Loading, Ready, Failed} so the HTTP layer can fail closed
// (503) until an artifact has been loaded and validated. Once Ready, the
// loaded index is immutable and safe for concurrent queries.
package simindex

import (
	"errors"
	"fmt"
	"sync"
	"time"

	faiss "github.com/DataIntelligenceCrew/go-faiss"

	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/metrics"
)

var (
	// ErrNotReady indicates the index artifact has not been loaded (or
	// failed to load); callers must not serve recommendations.
	ErrNotReady = errors.New("similarity index not ready")

	// ErrDimensionMismatch indicates a query vector whose length differs
	// from the dimension the index was built with.
	ErrDimensionMismatch = errors.New("query vector dimension mismatch")
)

// State is the lifecycle state of the engine.
type State int32

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Neighbor is one similarity search result: the ordinal index of a
// restaurant row in the trained index, and its similarity distance
// (ascending = more similar).
type Neighbor struct {
	Ordinal  int
	Distance float32
}

// searcher abstracts the loaded FAISS index. faiss.Index satisfies it;
// tests substitute a fake.
type searcher interface {
	D() int
	Ntotal() int64
	Search(x []float32, k int64) (distances []float32, labels []int64, err error)
	Delete()
}

// openArtifact loads a FAISS artifact from disk. Swapped out in tests.
var openArtifact = func(path string) (searcher, error) {
	return faiss.ReadIndex(path, 0)
}

// Engine serves nearest-neighbor queries against a loaded artifact.
type Engine struct {
	dimension int

	mu    sync.RWMutex
	state State
	idx   searcher
}

// New returns an Engine in the Unloaded state expecting query vectors of
// the given dimension.
func New(dimension int) *Engine {
	e := &Engine{dimension: dimension, state: StateUnloaded}
	metrics.IndexState.Set(float64(StateUnloaded))
	return e
}

// Load reads and validates the artifact at path. On success the engine
// transitions to Ready; on any failure it transitions to Failed and the
// error is returned. Load may be called again after a failure (or to pick
// up a new artifact); the previous index, if any, is released.
func (e *Engine) Load(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setState(StateLoading)
	logging.Info().Str("path", path).Msg("Loading similarity index artifact")

	idx, err := openArtifact(path)
	if err != nil {
		e.setState(StateFailed)
		return fmt.Errorf("read index artifact %s: %w", path, err)
	}

	if idx.D() != e.dimension {
		idx.Delete()
		e.setState(StateFailed)
		return fmt.Errorf("index artifact %s has dimension %d, expected %d", path, idx.D(), e.dimension)
	}
	if idx.Ntotal() == 0 {
		idx.Delete()
		e.setState(StateFailed)
		return fmt.Errorf("index artifact %s contains no vectors", path)
	}

	if e.idx != nil {
		e.idx.Delete()
	}
	e.idx = idx
	e.setState(StateReady)

	logging.Info().
		Str("path", path).
		Int("dimension", idx.D()).
		Int64("vectors", idx.Ntotal()).
		Msg("Similarity index ready")
	return nil
}

// setState updates the state and its gauge (must be called with mu held).
func (e *Engine) setState(s State) {
	e.state = s
	metrics.IndexState.Set(float64(s))
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Ready reports whether queries are admissible.
func (e *Engine) Ready() bool {
	return e.State() == StateReady
}

// Dimension returns the expected query vector dimension.
func (e *Engine) Dimension() int {
	return e.dimension
}

// Query returns up to k nearest restaurant ordinals for the given vector,
// ascending by similarity distance. FAISS pads short result sets with
// label -1; those slots are dropped.
func (e *Engine) Query(vector []float32, k int) ([]Neighbor, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(vector) != e.dimension {
		return nil, fmt.Errorf("%w: got %d, index expects %d", ErrDimensionMismatch, len(vector), e.dimension)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state != StateReady {
		return nil, fmt.Errorf("%w: state is %s", ErrNotReady, e.state)
	}

	start := time.Now()
	distances, labels, err := e.idx.Search(vector, int64(k))
	metrics.RecordIndexQuery(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	neighbors := make([]Neighbor, 0, len(labels))
	for i, label := range labels {
		if label < 0 {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Ordinal:  int(label),
			Distance: distances[i],
		})
	}
	return neighbors, nil
}

// Close releases the loaded index. The engine returns to Unloaded.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idx != nil {
		e.idx.Delete()
		e.idx = nil
	}
	e.setState(StateUnloaded)
}
