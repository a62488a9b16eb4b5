// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forkcast/forkcast/internal/middleware"
)

// Router assembles the HTTP routes and middleware stack.
type Router struct {
	handler *Handler
	mw      *ChiMiddleware
}

// NewRouter creates a Router for the given handler set.
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler: handler,
		mw:      NewChiMiddleware(handler.cfg.Security),
	}
}

// Setup builds the chi route tree.
//
//	GET  /                    service banner
//	GET  /health/live         process liveness
//	GET  /health/ready        index + store readiness
//	GET  /metrics             Prometheus exposition
//	GET  /recommend/{user_id} ranked recommendations
//	POST /recommend/{user_id} same, parameters accepted as form values
//	POST /admin/prewarm       operator-triggered cache pre-warm
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.mw.CORS())

	r.Get("/", rt.handler.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/recommend", func(r chi.Router) {
		r.Use(rt.mw.RateLimit())
		instrumented := middleware.PrometheusMetrics("/recommend/{user_id}", rt.handler.Recommend)
		r.Get("/{user_id}", instrumented)
		r.Post("/{user_id}", instrumented)
	})

	r.With(rt.mw.RateLimit()).Post("/admin/prewarm", rt.handler.TriggerPrewarm)

	return r
}
