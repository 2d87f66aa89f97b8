// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/RayaneAll/honeypot-attack-map/internal/database"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
	"github.com/RayaneAll/honeypot-attack-map/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondAPIError sends a prepared API error, keeping its details.
func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: apiErr,
	})
}

// respondStoreError maps store errors to HTTP status codes.
func respondStoreError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Attack not found", nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to "+action, err)
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// queryParser reads typed query parameters and keeps the first parse error.
type queryParser struct {
	values url.Values
	err    *models.APIError
}

func newQueryParser(r *http.Request) *queryParser {
	return &queryParser{values: r.URL.Query()}
}

// Int returns the integer value of key, or defaultValue when it is absent.
// Malformed values are recorded as a validation error.
func (p *queryParser) Int(key string, defaultValue int) int {
	raw := strings.TrimSpace(p.values.Get(key))
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, "must be an integer")
		return defaultValue
	}
	return value
}

// RiskLevel returns the risk level named by key in any case, or "" when it
// is absent. Unknown levels are recorded as a validation error.
func (p *queryParser) RiskLevel(key string) models.RiskLevel {
	raw := strings.TrimSpace(p.values.Get(key))
	if raw == "" {
		return ""
	}
	level, ok := models.ParseRiskLevel(strings.ToUpper(raw))
	if !ok {
		p.fail(key, raw, "must be one of: LOW MEDIUM HIGH CRITICAL")
		return ""
	}
	return level
}

func (p *queryParser) fail(key, raw, reason string) {
	if p.err != nil {
		return
	}
	p.err = &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("%s %s", key, reason),
		Details: map[string]interface{}{
			"field": key,
			"value": sanitizeLogValue(raw),
		},
	}
}

// String returns the trimmed value of key.
func (p *queryParser) String(key string) string {
	return strings.TrimSpace(p.values.Get(key))
}

// Bool reports whether key is set to a true value ("true", "1", ...).
func (p *queryParser) Bool(key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(p.values.Get(key)))
	return err == nil && value
}

// Err returns the first parse error, if any.
func (p *queryParser) Err() *models.APIError {
	return p.err
}
