// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/database"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
	ws "github.com/RayaneAll/honeypot-attack-map/internal/websocket"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

var testNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

// memoryStore is an in-memory AttackStore. Setting err makes every call fail.
type memoryStore struct {
	mu      sync.Mutex
	events  []models.AttackEvent
	nextID  int64
	err     error
	pingErr error

	lastFilter models.AttackFilter
	lastCutoff time.Time
	lastTopN   int
	lastLimit  int
}

func (s *memoryStore) add(event models.AttackEvent) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	event.ID = s.nextID
	s.events = append(s.events, event)
	return event.ID
}

func (s *memoryStore) Ping(context.Context) error {
	return s.pingErr
}

func (s *memoryStore) matching(filter models.AttackFilter) []models.AttackEvent {
	out := make([]models.AttackEvent, 0, len(s.events))
	for _, e := range s.events {
		if filter.Country != "" && e.Country != filter.Country {
			continue
		}
		if filter.Protocol != "" && !strings.EqualFold(e.Protocol, filter.Protocol) {
			continue
		}
		if filter.Port != 0 && e.Port != filter.Port {
			continue
		}
		if filter.RiskLevel != "" && models.ClassifyRisk(e.Port) != filter.RiskLevel {
			continue
		}
		if filter.Since != nil && e.Timestamp.Before(*filter.Since) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *memoryStore) QueryAttacks(_ context.Context, filter models.AttackFilter) ([]models.AttackEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	all := s.matching(filter)
	offset := filter.NormalizedOffset()
	if offset >= len(all) {
		return []models.AttackEvent{}, nil
	}
	end := min(offset+filter.NormalizedLimit(), len(all))
	return all[offset:end], nil
}

func (s *memoryStore) CountAttacks(_ context.Context, filter models.AttackFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.matching(filter))), nil
}

func (s *memoryStore) GetAttackByID(_ context.Context, id int64) (*models.AttackEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.events {
		if s.events[i].ID == id {
			event := s.events[i]
			return &event, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memoryStore) DeleteAttack(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *memoryStore) PurgeAttacksOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCutoff = cutoff
	if s.err != nil {
		return 0, s.err
	}
	kept := s.events[:0]
	var deleted int64
	for _, e := range s.events {
		if e.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}

func (s *memoryStore) GetAttackSummary(_ context.Context, now time.Time, topN int) (*models.AttackSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTopN = topN
	if s.err != nil {
		return nil, s.err
	}
	return &models.AttackSummary{
		Total:        int64(len(s.events)),
		TopCountries: []models.CountryStats{},
		TopPorts:     []models.PortStats{},
		TopProtocols: []models.ProtocolStats{},
		GeneratedAt:  now,
	}, nil
}

func (s *memoryStore) GetAttacksByCountry(_ context.Context, limit int) ([]models.CountryStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []models.CountryStats{{Country: "China", Count: 3, UniqueIPs: 2}}, nil
}

func (s *memoryStore) GetAttacksByPort(_ context.Context, limit int) ([]models.PortStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []models.PortStats{{Port: 22, Count: 3, RiskLevel: models.RiskCritical}}, nil
}

// fakeGeoCache counts purge calls.
type fakeGeoCache struct {
	stats        models.GeoCacheStats
	purged       int
	purgedStale  int
	purgeResult  int
	expiredCount int
}

func (g *fakeGeoCache) Stats() models.GeoCacheStats { return g.stats }

func (g *fakeGeoCache) Purge() int {
	g.purged++
	return g.purgeResult
}

func (g *fakeGeoCache) PurgeExpired() int {
	g.purgedStale++
	return g.expiredCount
}

// fakeListeners reports a fixed listener table.
type fakeListeners struct {
	statuses []models.ListenerStatus
}

func (l *fakeListeners) Status() []models.ListenerStatus { return l.statuses }

func (l *fakeListeners) ActiveCount() int {
	n := 0
	for _, s := range l.statuses {
		if s.State == "listening" {
			n++
		}
	}
	return n
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{DefaultPageSize: 100, MaxPageSize: 1000, TopN: 5},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
	}
}

type testEnv struct {
	store     *memoryStore
	geo       *fakeGeoCache
	listeners *fakeListeners
	hub       *ws.Hub
	handler   *Handler
	router    http.Handler
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	env := &testEnv{
		store: &memoryStore{},
		geo:   &fakeGeoCache{},
		listeners: &fakeListeners{statuses: []models.ListenerStatus{
			{Port: 22, State: "listening"},
			{Port: 23, State: "failed", LastError: "address already in use"},
		}},
		hub: ws.NewHub(),
	}
	env.handler = NewHandler(cfg, Dependencies{
		Store:     env.store,
		GeoCache:  env.geo,
		Listeners: env.listeners,
		Hub:       env.hub,
		Version:   "test",
	})
	env.handler.now = func() time.Time { return testNow }
	env.router = NewRouter(env.handler, cfg.Security).SetupChi()
	return env
}

func (env *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func attackAt(ip string, port int, country string, ts time.Time) models.AttackEvent {
	return models.AttackEvent{
		IPAddress: ip,
		Port:      port,
		Protocol:  models.ProtocolTCP,
		Country:   country,
		City:      "Unknown",
		Region:    "Unknown",
		Timezone:  "UTC",
		ISP:       "Unknown",
		Timestamp: ts,
	}
}

type envelope[T any] struct {
	Status   string           `json:"status"`
	Data     T                `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rec.Body.String())
	}
	return env
}
