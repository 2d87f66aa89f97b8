// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

// Package metrics exposes Prometheus instrumentation for the honeypot
// listeners, the ingestion pipeline, geolocation, storage, the HTTP API
// and the live feed. Metrics are registered on the default registry and
// served at /metrics.
package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Honeypot Metrics
	HoneypotConnections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_connections_total",
			Help: "Total number of inbound connections accepted per port",
		},
		[]string{"port"},
	)

	HoneypotCaptureErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_capture_errors_total",
			Help: "Total number of capture failures per port",
		},
		[]string{"port", "reason"}, // accept, banner, read, handler
	)

	HoneypotListenersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "honeypot_listeners_active",
			Help: "Number of ports currently accepting connections",
		},
	)

	HoneypotListenerRestarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_listener_restarts_total",
			Help: "Total number of listener rebind attempts per port",
		},
		[]string{"port"},
	)

	// Ingestion Metrics
	AttacksIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attacks_ingested_total",
			Help: "Total number of attack events persisted",
		},
		[]string{"protocol", "risk_level"},
	)

	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_errors_total",
			Help: "Total number of ingestion failures by stage",
		},
		[]string{"stage"}, // validate, persist, publish
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Time from capture hand-off to broadcast in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// Geolocation Metrics
	GeolocationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geolocation_cache_hits_total",
			Help: "Total number of geolocation cache hits",
		},
	)

	GeolocationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geolocation_cache_misses_total",
			Help: "Total number of geolocation cache misses",
		},
	)

	GeolocationCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geolocation_cache_entries",
			Help: "Current number of cached geolocation results",
		},
	)

	GeolocationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolocation_lookups_total",
			Help: "Total number of resolutions by outcome",
		},
		[]string{"result"}, // cached, resolved, private, fallback
	)

	GeolocationAPICallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geolocation_api_call_duration_seconds",
			Help:    "Duration of external geolocation lookups in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of live feed subscribers",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of messages queued to subscribers",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of messages dropped for slow or dead subscribers",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Retention Metrics
	RetentionPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_events_purged_total",
			Help: "Total number of attack events removed by retention",
		},
	)

	RetentionRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retention_runs_total",
			Help: "Total number of retention passes by result",
		},
		[]string{"result"},
	)

	// NATS Metrics
	NATSMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of attack events mirrored to NATS",
		},
	)

	NATSPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_publish_failures_total",
			Help: "Total number of failed NATS mirror publishes",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
		func() float64 { return time.Since(processStart).Seconds() },
	)
)

var processStart = time.Now()

// SetAppInfo publishes the running version.
func SetAppInfo(version string) {
	AppInfo.Reset()
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordConnection counts an accepted connection on port.
func RecordConnection(port int) {
	HoneypotConnections.WithLabelValues(strconv.Itoa(port)).Inc()
}

// RecordCaptureError counts a capture failure on port.
func RecordCaptureError(port int, reason string) {
	HoneypotCaptureErrors.WithLabelValues(strconv.Itoa(port), reason).Inc()
}

// RecordListenerRestart counts a rebind attempt on port.
func RecordListenerRestart(port int) {
	HoneypotListenerRestarts.WithLabelValues(strconv.Itoa(port)).Inc()
}

// RecordIngest records the outcome of one pipeline run.
// stage is empty on success.
func RecordIngest(protocol, riskLevel, stage string, duration time.Duration) {
	IngestDuration.Observe(duration.Seconds())
	if stage != "" {
		IngestErrors.WithLabelValues(stage).Inc()
		return
	}
	AttacksIngested.WithLabelValues(protocol, riskLevel).Inc()
}

// RecordGeoLookup records a resolution outcome.
func RecordGeoLookup(result string) {
	GeolocationLookups.WithLabelValues(result).Inc()
	switch result {
	case "cached":
		GeolocationCacheHits.Inc()
	case "resolved", "fallback":
		GeolocationCacheMisses.Inc()
	}
}

// RecordRetentionRun records one retention pass.
func RecordRetentionRun(deleted int64, err error) {
	if err != nil {
		RetentionRuns.WithLabelValues("error").Inc()
		return
	}
	RetentionRuns.WithLabelValues("success").Inc()
	RetentionPurged.Add(float64(deleted))
}

// RecordNATSPublish records a mirror publish.
func RecordNATSPublish(err error) {
	if err != nil {
		NATSPublishFailures.Inc()
		return
	}
	NATSMessagesPublished.Inc()
}
