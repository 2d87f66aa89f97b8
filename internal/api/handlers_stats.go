// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package api

import (
	"net/http"
	"time"
)

// StatsLimitRequest holds the limit of the per-country and per-port endpoints.
type StatsLimitRequest struct {
	Limit int `json:"limit" validate:"min=1,max=50"`
}

const defaultStatsLimit = 10

// StatsSummary returns totals, 24h and 1h counts, distinct countries and
// addresses, and the top countries, ports and protocols.
func (h *Handler) StatsSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	summary, err := h.store.GetAttackSummary(r.Context(), h.now(), h.apiConfig().TopN)
	if err != nil {
		respondStoreError(w, err, "compute attack summary")
		return
	}

	respondSuccess(w, summary, start)
}

// StatsByCountry returns attack counts per country, largest first.
func (h *Handler) StatsByCountry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, ok := parseStatsLimit(w, r)
	if !ok {
		return
	}

	stats, err := h.store.GetAttacksByCountry(r.Context(), limit)
	if err != nil {
		respondStoreError(w, err, "compute country statistics")
		return
	}

	respondSuccess(w, stats, start)
}

// StatsByPort returns attack counts per port with their risk level.
func (h *Handler) StatsByPort(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, ok := parseStatsLimit(w, r)
	if !ok {
		return
	}

	stats, err := h.store.GetAttacksByPort(r.Context(), limit)
	if err != nil {
		respondStoreError(w, err, "compute port statistics")
		return
	}

	respondSuccess(w, stats, start)
}

func parseStatsLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	q := newQueryParser(r)
	req := StatsLimitRequest{Limit: q.Int("limit", defaultStatsLimit)}
	if apiErr := q.Err(); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return 0, false
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return 0, false
	}
	return req.Limit, true
}
