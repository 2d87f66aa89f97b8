// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/middleware"
)

// Router binds the handler to its routes and middleware.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler using the CORS and rate limit
// settings of sec.
func NewRouter(handler *Handler, sec config.SecurityConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddlewareFromConfig(sec),
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/", router.handler.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Route("/attacks", func(r chi.Router) {
			r.Get("/", router.handler.Attacks)
			r.Get("/recent", router.handler.RecentAttacks)
			r.Delete("/cleanup", router.handler.CleanupAttacks)
			r.Get("/{id}", router.handler.Attack)
			r.Delete("/{id}", router.handler.DeleteAttack)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/summary", router.handler.StatsSummary)
			r.Get("/by-country", router.handler.StatsByCountry)
			r.Get("/by-port", router.handler.StatsByPort)
		})

		r.Get("/geoip/cache", router.handler.GeoCacheStats)
		r.Delete("/geoip/cache", router.handler.ClearGeoCache)

		r.Get("/listeners", router.handler.Listeners)
	})

	// The live feed sits outside the metrics and compression middleware:
	// both would otherwise wrap a hijacked connection.
	r.With(router.chiMiddleware.RateLimit()).Get("/ws", router.handler.WebSocket)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
