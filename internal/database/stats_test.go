// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package database

import (
	"context"
	"testing"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

func seedSummaryFixtures(t *testing.T, db *DB) {
	t.Helper()

	fixtures := []struct {
		ip      string
		port    int
		country string
		age     time.Duration
	}{
		{"203.0.113.1", 22, "China", 10 * time.Minute},
		{"203.0.113.1", 22, "China", 20 * time.Minute},
		{"203.0.113.2", 22, "China", 2 * time.Hour},
		{"203.0.113.3", 3389, "Russia", 3 * time.Hour},
		{"203.0.113.4", 80, "Russia", 48 * time.Hour},
		{"203.0.113.5", 143, "Brazil", 72 * time.Hour},
		{"203.0.113.6", 9999, "Brazil", 30 * time.Minute},
	}
	for _, f := range fixtures {
		event := newEvent(f.ip, f.port, baseTime.Add(-f.age))
		event.Country = f.country
		mustAppend(t, db, event)
	}
}

func TestGetAttackSummary(t *testing.T) {
	db := setupTestDB(t)
	seedSummaryFixtures(t, db)

	summary, err := db.GetAttackSummary(context.Background(), baseTime, 2)
	if err != nil {
		t.Fatalf("GetAttackSummary() error = %v", err)
	}

	if summary.Total != 7 {
		t.Errorf("Total = %d, want 7", summary.Total)
	}
	if summary.Last24Hours != 5 {
		t.Errorf("Last24Hours = %d, want 5", summary.Last24Hours)
	}
	if summary.LastHour != 3 {
		t.Errorf("LastHour = %d, want 3", summary.LastHour)
	}
	if summary.UniqueCountries != 3 {
		t.Errorf("UniqueCountries = %d, want 3", summary.UniqueCountries)
	}
	if summary.UniqueIPs != 6 {
		t.Errorf("UniqueIPs = %d, want 6", summary.UniqueIPs)
	}
	if !summary.GeneratedAt.Equal(baseTime) {
		t.Errorf("GeneratedAt = %v, want %v", summary.GeneratedAt, baseTime)
	}

	if len(summary.TopCountries) != 2 {
		t.Fatalf("TopCountries has %d entries, want 2", len(summary.TopCountries))
	}
	if summary.TopCountries[0].Country != "China" || summary.TopCountries[0].Count != 3 {
		t.Errorf("TopCountries[0] = %+v, want China/3", summary.TopCountries[0])
	}
	if summary.TopCountries[0].UniqueIPs != 2 {
		t.Errorf("TopCountries[0].UniqueIPs = %d, want 2", summary.TopCountries[0].UniqueIPs)
	}
	// Brazil and Russia tie at 2 and sort by name.
	if summary.TopCountries[1].Country != "Brazil" {
		t.Errorf("TopCountries[1] = %+v, want Brazil", summary.TopCountries[1])
	}

	if len(summary.TopPorts) != 2 {
		t.Fatalf("TopPorts has %d entries, want 2", len(summary.TopPorts))
	}
	if summary.TopPorts[0].Port != 22 || summary.TopPorts[0].Count != 3 {
		t.Errorf("TopPorts[0] = %+v, want 22/3", summary.TopPorts[0])
	}

	if len(summary.TopProtocols) != 1 || summary.TopProtocols[0].Protocol != models.ProtocolTCP {
		t.Errorf("TopProtocols = %+v", summary.TopProtocols)
	}
}

func TestGetAttackSummary_EmptyStore(t *testing.T) {
	db := setupTestDB(t)

	summary, err := db.GetAttackSummary(context.Background(), baseTime, 0)
	if err != nil {
		t.Fatalf("GetAttackSummary() error = %v", err)
	}
	if summary.Total != 0 || summary.UniqueIPs != 0 {
		t.Errorf("summary = %+v, want zero counts", summary)
	}
	if summary.TopCountries == nil || summary.TopPorts == nil || summary.TopProtocols == nil {
		t.Error("top lists should be empty slices, not nil")
	}
}

func TestGetAttacksByPort_RiskLevels(t *testing.T) {
	db := setupTestDB(t)
	seedSummaryFixtures(t, db)

	stats, err := db.GetAttacksByPort(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetAttacksByPort() error = %v", err)
	}

	want := map[int]models.RiskLevel{
		22:   models.RiskCritical,
		3389: models.RiskCritical,
		80:   models.RiskHigh,
		143:  models.RiskMedium,
		9999: models.RiskLow,
	}
	if len(stats) != len(want) {
		t.Fatalf("got %d ports, want %d", len(stats), len(want))
	}
	for _, s := range stats {
		if s.RiskLevel != want[s.Port] {
			t.Errorf("port %d risk = %s, want %s", s.Port, s.RiskLevel, want[s.Port])
		}
	}
	if stats[0].Port != 22 {
		t.Errorf("busiest port = %d, want 22", stats[0].Port)
	}
}

func TestGetAttacksByCountry_Limit(t *testing.T) {
	db := setupTestDB(t)
	seedSummaryFixtures(t, db)

	stats, err := db.GetAttacksByCountry(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetAttacksByCountry() error = %v", err)
	}
	if len(stats) != 1 || stats[0].Country != "China" {
		t.Errorf("stats = %+v, want only China", stats)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, models.DefaultQueryLimit},
		{0, models.DefaultQueryLimit},
		{7, 7},
		{models.MaxQueryLimit + 1, models.MaxQueryLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
