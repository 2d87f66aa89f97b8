// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// AttacksRequest holds the query parameters of GET /api/v1/attacks.
type AttacksRequest struct {
	Limit    int    `json:"limit" validate:"min=1,max=1000"`
	Offset   int    `json:"offset" validate:"min=0"`
	Country  string `json:"country" validate:"omitempty,max=100"`
	Protocol string `json:"protocol" validate:"omitempty,max=16"`
	Port     int    `json:"port" validate:"min=0,max=65535"`
	Hours    int    `json:"hours" validate:"min=0,max=8760"`
}

// RecentAttacksRequest holds the query parameters of GET /api/v1/attacks/recent.
type RecentAttacksRequest struct {
	Minutes int `json:"minutes" validate:"min=1,max=1440"`
	Limit   int `json:"limit" validate:"min=1,max=1000"`
}

// CleanupRequest holds the query parameters of DELETE /api/v1/attacks/cleanup.
type CleanupRequest struct {
	Days int `json:"days" validate:"min=1,max=3650"`
}

const (
	defaultRecentMinutes = 60
	defaultRecentLimit   = 50
	defaultCleanupDays   = 30
)

// Attacks returns a page of attacks, newest first.
//
// Query parameters: limit (1-1000), offset, country, protocol (any case),
// port, risk_level (LOW, MEDIUM, HIGH or CRITICAL) and hours (only attacks
// of the last N hours).
func (h *Handler) Attacks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	apiCfg := h.apiConfig()

	q := newQueryParser(r)
	req := AttacksRequest{
		Limit:    q.Int("limit", apiCfg.DefaultPageSize),
		Offset:   q.Int("offset", 0),
		Country:  q.String("country"),
		Protocol: q.String("protocol"),
		Port:     q.Int("port", 0),
		Hours:    q.Int("hours", 0),
	}
	riskLevel := q.RiskLevel("risk_level")
	if apiErr := q.Err(); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	filter := models.AttackFilter{
		Country:   req.Country,
		Protocol:  req.Protocol,
		Port:      req.Port,
		RiskLevel: riskLevel,
		Limit:     min(req.Limit, apiCfg.MaxPageSize),
		Offset:    req.Offset,
	}
	if req.Hours > 0 {
		since := h.now().Add(-time.Duration(req.Hours) * time.Hour)
		filter.Since = &since
	}

	h.respondAttackPage(w, r, filter, start)
}

// RecentAttacks returns the attacks of the last N minutes (default 60).
func (h *Handler) RecentAttacks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := newQueryParser(r)
	req := RecentAttacksRequest{
		Minutes: q.Int("minutes", defaultRecentMinutes),
		Limit:   q.Int("limit", defaultRecentLimit),
	}
	if apiErr := q.Err(); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	since := h.now().Add(-time.Duration(req.Minutes) * time.Minute)
	filter := models.AttackFilter{
		Since: &since,
		Limit: min(req.Limit, h.apiConfig().MaxPageSize),
	}

	h.respondAttackPage(w, r, filter, start)
}

func (h *Handler) respondAttackPage(w http.ResponseWriter, r *http.Request, filter models.AttackFilter, start time.Time) {
	attacks, err := h.store.QueryAttacks(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err, "query attacks")
		return
	}
	total, err := h.store.CountAttacks(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err, "count attacks")
		return
	}

	offset := filter.NormalizedOffset()
	respondSuccess(w, models.AttacksResponse{
		Attacks: attacks,
		Pagination: models.PaginationInfo{
			Limit:   filter.NormalizedLimit(),
			Offset:  offset,
			Total:   total,
			HasMore: int64(offset+len(attacks)) < total,
		},
	}, start)
}

// Attack returns one attack by id.
func (h *Handler) Attack(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseAttackID(w, r)
	if !ok {
		return
	}

	event, err := h.store.GetAttackByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "get attack")
		return
	}

	respondSuccess(w, event, start)
}

// DeleteAttack removes one attack by id.
func (h *Handler) DeleteAttack(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseAttackID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteAttack(r.Context(), id); err != nil {
		respondStoreError(w, err, "delete attack")
		return
	}

	logging.Ctx(r.Context()).Info().Int64("attack_id", id).Msg("Attack deleted")
	respondSuccess(w, map[string]interface{}{
		"id":      id,
		"deleted": true,
	}, start)
}

// CleanupAttacks deletes attacks older than N days (default 30).
func (h *Handler) CleanupAttacks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := newQueryParser(r)
	req := CleanupRequest{Days: q.Int("days", defaultCleanupDays)}
	if apiErr := q.Err(); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	cutoff := h.now().UTC().Add(-time.Duration(req.Days) * 24 * time.Hour)
	deleted, err := h.store.PurgeAttacksOlderThan(r.Context(), cutoff)
	if err != nil {
		respondStoreError(w, err, "clean up attacks")
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("deleted", deleted).
		Int("days", req.Days).
		Msg("Old attacks cleaned up")
	respondSuccess(w, models.PurgeResult{Deleted: deleted, Cutoff: cutoff}, start)
}

// parseAttackID reads the {id} URL parameter, answering 400 when it is not
// a positive integer.
func parseAttackID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "id must be a positive integer",
			Details: map[string]interface{}{
				"field": "id",
				"value": sanitizeLogValue(raw),
			},
		})
		return 0, false
	}
	return id, true
}
