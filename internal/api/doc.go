// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package api provides the HTTP surface of the recommendation service:
// Chi routing, request parsing and validation, and the mapping from
// pipeline errors to JSON error responses.
package api
