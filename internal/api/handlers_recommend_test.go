// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
	"github.com/forkcast/forkcast/internal/simindex"
	"github.com/forkcast/forkcast/internal/store"
)

func recommendServer(rec Recommender) http.Handler {
	return NewRouter(newTestHandler(rec)).Setup()
}

func doRecommend(t *testing.T, router http.Handler, userID, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/recommend/"+userID+"?"+query, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecommendGETSuccess(t *testing.T) {
	fake := &fakeRecommender{resp: &models.RecommendResponse{
		Restaurants: []models.CandidateResult{
			{ID: "r1", Difference: 0.5, Displacement: 800},
			{ID: "r2", Difference: 1.5, Displacement: 200},
		},
	}}
	router := recommendServer(fake)

	rec := doRecommend(t, router, "u1", "latitude=40.7&longitude=-74.0")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var resp models.RecommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(resp.Restaurants) != 2 || resp.Restaurants[0].ID != "r1" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	// Exact wire keys, not struct-level equivalence.
	body := rec.Body.String()
	for _, key := range []string{`"restaurants"`, `"id"`, `"difference"`, `"displacement"`} {
		if !strings.Contains(body, key) {
			t.Errorf("response body missing key %s: %s", key, body)
		}
	}
}

func TestRecommendPOSTFormValues(t *testing.T) {
	fake := &fakeRecommender{}
	router := recommendServer(fake)

	form := url.Values{}
	form.Set("latitude", "40.7")
	form.Set("longitude", "-74.0")
	form.Set("sort_dis", "1")

	req := httptest.NewRequest(http.MethodPost, "/recommend/u1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.lastReq.Sort != recommend.SortByDistance {
		t.Error("sort_dis=1 should request distance ordering")
	}
	if fake.lastReq.UserID != "u1" {
		t.Errorf("expected user u1, got %q", fake.lastReq.UserID)
	}
}

func TestRecommendAppliesDefaults(t *testing.T) {
	fake := &fakeRecommender{}
	router := recommendServer(fake)

	rec := doRecommend(t, router, "u1", "latitude=40.7&longitude=-74.0")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fake.lastReq.PageSize != 20 {
		t.Errorf("expected default page size 20, got %d", fake.lastReq.PageSize)
	}
	if fake.lastReq.MaxDisplacement != 5000 {
		t.Errorf("expected default max_dis 5000, got %d", fake.lastReq.MaxDisplacement)
	}
	if fake.lastReq.Sort != recommend.SortBySimilarity {
		t.Error("expected similarity ordering by default")
	}
}

func TestRecommendCapsPageSize(t *testing.T) {
	fake := &fakeRecommender{}
	router := recommendServer(fake)

	rec := doRecommend(t, router, "u1", "latitude=40.7&longitude=-74.0&size=500")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fake.lastReq.PageSize != 100 {
		t.Errorf("expected page size capped at 100, got %d", fake.lastReq.PageSize)
	}
}

func TestRecommendParameterValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing latitude", query: "longitude=-74.0"},
		{name: "missing longitude", query: "latitude=40.7"},
		{name: "non-numeric latitude", query: "latitude=abc&longitude=-74.0"},
		{name: "non-numeric longitude", query: "latitude=40.7&longitude=xyz"},
		{name: "latitude out of range", query: "latitude=91&longitude=-74.0"},
		{name: "longitude out of range", query: "latitude=40.7&longitude=181"},
		{name: "zero size", query: "latitude=40.7&longitude=-74.0&size=0"},
		{name: "non-integer size", query: "latitude=40.7&longitude=-74.0&size=abc"},
		{name: "negative max_dis", query: "latitude=40.7&longitude=-74.0&max_dis=-1"},
		{name: "zero max_dis", query: "latitude=40.7&longitude=-74.0&max_dis=0"},
		{name: "bad sort flag", query: "latitude=40.7&longitude=-74.0&sort_dis=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRecommender{}
			router := recommendServer(fake)

			rec := doRecommend(t, router, "u1", tt.query)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
			}
			if fake.calls != 0 {
				t.Error("pipeline must not run for invalid parameters")
			}

			var errResp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if errResp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("expected VALIDATION_ERROR, got %s", errResp.Error.Code)
			}
		})
	}
}

func TestRecommendErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "unknown user", err: store.ErrUserNotFound, wantStatus: http.StatusNotFound, wantCode: "USER_NOT_FOUND"},
		{name: "index not ready", err: simindex.ErrNotReady, wantStatus: http.StatusServiceUnavailable, wantCode: "INDEX_NOT_READY"},
		{name: "store timeout", err: store.ErrTimeout, wantStatus: http.StatusServiceUnavailable, wantCode: "STORE_UNAVAILABLE"},
		{name: "unexpected failure", err: errPingDown, wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := recommendServer(&fakeRecommender{err: tt.err})

			rec := doRecommend(t, router, "u1", "latitude=40.7&longitude=-74.0")

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			var errResp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if errResp.Error.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, errResp.Error.Code)
			}
		})
	}
}

func TestRecommendEmptyResultIsValid(t *testing.T) {
	router := recommendServer(&fakeRecommender{resp: &models.RecommendResponse{
		Restaurants: []models.CandidateResult{},
	}})

	rec := doRecommend(t, router, "u1", "latitude=40.7&longitude=-74.0&max_dis=100")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"restaurants":[]}` {
		t.Errorf("expected empty list body, got %s", body)
	}
}
