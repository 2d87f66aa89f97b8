// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
	ws "github.com/RayaneAll/honeypot-attack-map/internal/websocket"
)

// AttackStore is the part of the event store the API reads and prunes.
type AttackStore interface {
	Ping(ctx context.Context) error
	QueryAttacks(ctx context.Context, filter models.AttackFilter) ([]models.AttackEvent, error)
	CountAttacks(ctx context.Context, filter models.AttackFilter) (int64, error)
	GetAttackByID(ctx context.Context, id int64) (*models.AttackEvent, error)
	DeleteAttack(ctx context.Context, id int64) error
	PurgeAttacksOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	GetAttackSummary(ctx context.Context, now time.Time, topN int) (*models.AttackSummary, error)
	GetAttacksByCountry(ctx context.Context, limit int) ([]models.CountryStats, error)
	GetAttacksByPort(ctx context.Context, limit int) ([]models.PortStats, error)
}

// GeoCache exposes the geolocation cache maintenance operations.
type GeoCache interface {
	Stats() models.GeoCacheStats
	Purge() int
	PurgeExpired() int
}

// ListenerReporter reports honeypot listener states.
type ListenerReporter interface {
	Status() []models.ListenerStatus
	ActiveCount() int
}

// Dependencies groups the collaborators of Handler. Store is required;
// a nil Hub disables /ws and nil GeoCache or Listeners make their endpoints
// answer 503.
type Dependencies struct {
	Store     AttackStore
	GeoCache  GeoCache
	Listeners ListenerReporter
	Hub       *ws.Hub
	Version   string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade (this file)
//   - handlers_helpers.go: response envelope and query parsing helpers
//   - handlers_health.go: health and listener endpoints
//   - handlers_attacks.go: attack list, lookup and deletion endpoints
//   - handlers_stats.go: aggregate statistics endpoints
//   - handlers_geoip.go: geolocation cache endpoints
type Handler struct {
	store     AttackStore
	geo       GeoCache
	listeners ListenerReporter
	hub       *ws.Hub
	config    *config.Config
	version   string
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(cfg, api.Dependencies{
//	    Store:     db,
//	    GeoCache:  resolver,
//	    Listeners: honeypots,
//	    Hub:       hub,
//	})
//	router := api.NewRouter(handler, cfg.Security)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(cfg *config.Config, deps Dependencies) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		store:     deps.Store,
		geo:       deps.GeoCache,
		listeners: deps.Listeners,
		hub:       deps.Hub,
		config:    cfg,
		version:   version,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// apiConfig returns the pagination settings, falling back to defaults when
// the handler was built without a config.
func (h *Handler) apiConfig() config.APIConfig {
	if h.config == nil {
		return config.APIConfig{DefaultPageSize: 100, MaxPageSize: models.MaxQueryLimit, TopN: 5}
	}
	return h.config.API
}

// WebSocket upgrades the request and subscribes the connection to the live
// attack feed. The client first receives a "connected" greeting and then one
// "new_attack" message per persisted attack.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.ServeClient(h.hub, conn)
	logging.Ctx(r.Context()).Debug().
		Uint64("client_id", client.ID()).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket client connected")
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins against the
// CORS allow list. A wildcard entry accepts every client, including
// non-browser clients that send no Origin header.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	if h.config == nil || h.config.HasWildcardCORS() {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
