// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

/*
Package middleware provides chi-compatible HTTP middleware for the API.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by the chi route pattern to keep label cardinality bounded
  - Compression: gzip for JSON responses, skipped for WebSocket upgrades
  - AccessLog: one structured log line per request

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)

	r.Group(func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.Compression)
	    r.Mount("/api/v1", apiRoutes)
	})

	r.Get("/ws", wsHandler) // outside metrics and compression

The WebSocket route stays outside PrometheusMetrics so long-lived
connections do not skew request latency histograms.
*/
package middleware
