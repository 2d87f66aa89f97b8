// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package api

import (
	"net/http"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// Health reports database connectivity, active listeners and WebSocket
// connections. The status is "healthy" when the database answers and at
// least one listener is accepting, "degraded" otherwise. The endpoint
// always answers 200 so that the body can be inspected.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	activeListeners := 0
	if h.listeners != nil {
		activeListeners = h.listeners.ActiveCount()
	}

	wsConnections := 0
	if h.hub != nil {
		wsConnections = h.hub.SubscriberCount()
	}

	status := "healthy"
	if !dbConnected || activeListeners == 0 {
		status = "degraded"
	}

	respondSuccess(w, models.HealthStatus{
		Status:               status,
		Version:              h.version,
		DatabaseConnected:    dbConnected,
		ActiveListeners:      activeListeners,
		WebSocketConnections: wsConnections,
		Uptime:               time.Since(h.startTime).Seconds(),
	}, start)
}

// Listeners returns the state of every honeypot port, sorted by port.
func (h *Handler) Listeners(w http.ResponseWriter, r *http.Request) {
	if h.listeners == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Honeypot listeners unavailable", nil)
		return
	}
	start := time.Now()

	respondSuccess(w, map[string]interface{}{
		"listeners": h.listeners.Status(),
		"active":    h.listeners.ActiveCount(),
	}, start)
}
