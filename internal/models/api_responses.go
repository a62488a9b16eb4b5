// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package models

import "time"

// APIError is the error envelope returned by all non-2xx responses.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid request parameters
//   - USER_NOT_FOUND: No feature vector exists for the user
//   - INDEX_NOT_READY: Similarity index has not finished loading
//   - STORE_UNAVAILABLE: Relational store timeout or pool exhaustion
//
// Example:
//
//	{
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "latitude must be within [-90,90]",
//	    "details": {"field": "latitude"}
//	  },
//	  "timestamp": "2026-08-30T12:00:00Z"
//	}
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError with a server timestamp.
type ErrorResponse struct {
	Error     APIError  `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status     string            `json:"status"`
	IndexState string            `json:"index_state,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}
