// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package api

import (
	"net/http"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
)

// GeoCacheStats returns the geolocation cache statistics.
func (h *Handler) GeoCacheStats(w http.ResponseWriter, r *http.Request) {
	if h.geo == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Geolocation cache unavailable", nil)
		return
	}
	respondSuccess(w, h.geo.Stats(), time.Now())
}

// ClearGeoCache empties the geolocation cache. With ?expired=true only
// entries past their TTL are removed.
func (h *Handler) ClearGeoCache(w http.ResponseWriter, r *http.Request) {
	if h.geo == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Geolocation cache unavailable", nil)
		return
	}
	start := time.Now()

	expiredOnly := newQueryParser(r).Bool("expired")
	var cleared int
	if expiredOnly {
		cleared = h.geo.PurgeExpired()
	} else {
		cleared = h.geo.Purge()
	}

	logging.Ctx(r.Context()).Info().
		Int("cleared", cleared).
		Bool("expired_only", expiredOnly).
		Msg("Geolocation cache cleared")
	respondSuccess(w, map[string]interface{}{
		"cleared":      cleared,
		"expired_only": expiredOnly,
	}, start)
}
