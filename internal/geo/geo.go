// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package geo maps coordinates onto the hierarchical hexagonal grid used
// to bound geospatial candidate search, and computes great-circle
// displacements. It is pure: no I/O, no state beyond the configured grid
// resolution and ring radius.
package geo

import (
	"errors"
	"fmt"

	h3 "github.com/uber/h3-go/v4"
)

// ErrInvalidCoordinate indicates a latitude outside [-90,90] or a
// longitude outside [-180,180].
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Grid resolves coordinates to hex cells at a fixed resolution and expands
// cells into rings. Resolution trades cell size against candidate recall;
// the ring radius trades recall against candidate query cost.
type Grid struct {
	resolution int
	ringRadius int
}

// NewGrid returns a Grid at the given H3 resolution with the given
// default ring radius.
func NewGrid(resolution, ringRadius int) *Grid {
	return &Grid{resolution: resolution, ringRadius: ringRadius}
}

// Resolution returns the configured grid resolution.
func (g *Grid) Resolution() int {
	return g.resolution
}

// RingRadius returns the configured default ring radius.
func (g *Grid) RingRadius() int {
	return g.ringRadius
}

// CellOf returns the cell identifier containing (lat, lon). The mapping is
// deterministic for a fixed resolution.
func (g *Grid) CellOf(lat, lon float64) (string, error) {
	if err := ValidateCoordinate(lat, lon); err != nil {
		return "", err
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lon), g.resolution)
	if err != nil {
		return "", fmt.Errorf("resolve cell for (%f,%f): %w", lat, lon, err)
	}
	return cell.String(), nil
}

// Ring returns all cells within k grid-steps of the given cell, inclusive
// of the cell itself.
func (g *Grid) Ring(cellID string, k int) ([]string, error) {
	cell := h3.Cell(h3.IndexFromString(cellID))
	if !cell.IsValid() {
		return nil, fmt.Errorf("parse cell %q: not a valid cell identifier", cellID)
	}

	cells, err := h3.GridDisk(cell, k)
	if err != nil {
		return nil, fmt.Errorf("expand ring around %s: %w", cellID, err)
	}

	ids := make([]string, 0, len(cells))
	for _, c := range cells {
		ids = append(ids, c.String())
	}
	return ids, nil
}

// SearchArea resolves (lat, lon) to its cell and expands it with the
// configured ring radius in one step.
func (g *Grid) SearchArea(lat, lon float64) ([]string, error) {
	cellID, err := g.CellOf(lat, lon)
	if err != nil {
		return nil, err
	}
	return g.Ring(cellID, g.ringRadius)
}

// ValidateCoordinate checks latitude and longitude ranges.
func ValidateCoordinate(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %f outside [-90,90]", ErrInvalidCoordinate, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %f outside [-180,180]", ErrInvalidCoordinate, lon)
	}
	return nil
}
