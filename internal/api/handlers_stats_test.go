// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

func TestStatsSummary(t *testing.T) {
	cfg := testConfig()
	cfg.API.TopN = 3
	env := newTestEnv(t, cfg)
	seedAttacks(env)

	rec := env.do(t, http.MethodGet, "/api/v1/stats/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body=%s)", rec.Code, rec.Body.String())
	}
	resp := decode[models.AttackSummary](t, rec)
	if resp.Data.Total != 5 {
		t.Errorf("total = %d, want 5", resp.Data.Total)
	}
	if !resp.Data.GeneratedAt.Equal(testNow) {
		t.Errorf("generated_at = %v, want handler clock %v", resp.Data.GeneratedAt, testNow)
	}
	if env.store.lastTopN != 3 {
		t.Errorf("topN = %d, want 3", env.store.lastTopN)
	}
}

func TestStatsByCountryAndPort(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantLimit int
	}{
		{"country default", "/api/v1/stats/by-country", http.StatusOK, 10},
		{"country limit", "/api/v1/stats/by-country?limit=3", http.StatusOK, 3},
		{"country limit max", "/api/v1/stats/by-country?limit=50", http.StatusOK, 50},
		{"country limit too large", "/api/v1/stats/by-country?limit=51", http.StatusBadRequest, 0},
		{"port default", "/api/v1/stats/by-port", http.StatusOK, 10},
		{"port limit", "/api/v1/stats/by-port?limit=1", http.StatusOK, 1},
		{"port limit zero", "/api/v1/stats/by-port?limit=0", http.StatusBadRequest, 0},
		{"port limit garbage", "/api/v1/stats/by-port?limit=ten", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, testConfig())

			rec := env.do(t, http.MethodGet, tt.path)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if env.store.lastLimit != tt.wantLimit {
				t.Errorf("store limit = %d, want %d", env.store.lastLimit, tt.wantLimit)
			}
		})
	}
}

func TestStatsByPort_IncludesRiskLevel(t *testing.T) {
	env := newTestEnv(t, testConfig())

	resp := decode[[]models.PortStats](t, env.do(t, http.MethodGet, "/api/v1/stats/by-port"))
	if len(resp.Data) != 1 || resp.Data[0].RiskLevel != models.RiskCritical {
		t.Errorf("data = %+v, want port 22 CRITICAL", resp.Data)
	}
}

func TestStats_StoreFailure(t *testing.T) {
	for _, path := range []string{"/api/v1/stats/summary", "/api/v1/stats/by-country", "/api/v1/stats/by-port"} {
		t.Run(path, func(t *testing.T) {
			env := newTestEnv(t, testConfig())
			env.store.err = errors.New("connection reset")

			if rec := env.do(t, http.MethodGet, path); rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", rec.Code)
			}
		})
	}
}

func TestGeoCacheStats(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.geo.stats = models.GeoCacheStats{Total: 7, Valid: 5, Expired: 2, Capacity: 100, TTL: (24 * time.Hour).String()}

	rec := env.do(t, http.MethodGet, "/api/v1/geoip/cache")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[models.GeoCacheStats](t, rec)
	if resp.Data.Total != 7 || resp.Data.Valid != 5 || resp.Data.Expired != 2 {
		t.Errorf("stats = %+v", resp.Data)
	}
}

func TestClearGeoCache(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantCleared float64
		wantAll     int
		wantStale   int
	}{
		{"all entries", "", 7, 1, 0},
		{"expired only", "?expired=true", 2, 0, 1},
		{"expired false", "?expired=false", 7, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, testConfig())
			env.geo.purgeResult = 7
			env.geo.expiredCount = 2

			rec := env.do(t, http.MethodDelete, "/api/v1/geoip/cache"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			resp := decode[map[string]interface{}](t, rec)
			if resp.Data["cleared"] != tt.wantCleared {
				t.Errorf("cleared = %v, want %v", resp.Data["cleared"], tt.wantCleared)
			}
			if env.geo.purged != tt.wantAll || env.geo.purgedStale != tt.wantStale {
				t.Errorf("purge calls = %d/%d, want %d/%d", env.geo.purged, env.geo.purgedStale, tt.wantAll, tt.wantStale)
			}
		})
	}
}

func TestGeoCache_Unavailable(t *testing.T) {
	h := NewHandler(testConfig(), Dependencies{Store: &memoryStore{}})
	router := NewRouter(h, testConfig().Security).SetupChi()

	env := &testEnv{router: router}
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		if rec := env.do(t, method, "/api/v1/geoip/cache"); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", method, rec.Code)
		}
	}
}
