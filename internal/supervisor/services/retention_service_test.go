// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
)

type fakePurger struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (f *fakePurger) PurgeAttacksOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return 0, f.err
	}
	return f.deleted, nil
}

func (f *fakePurger) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

type fakeGeoPurger struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeGeoPurger) PurgeExpired() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 3
}

func (f *fakeGeoPurger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRetentionService_RunOnce(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		maxAge      time.Duration
		storeErr    error
		wantDeleted int64
		wantCutoff  time.Time
		wantStore   int
		wantGeo     int
	}{
		{
			name:        "purges events older than max age",
			maxAge:      30 * 24 * time.Hour,
			wantDeleted: 12,
			wantCutoff:  now.Add(-30 * 24 * time.Hour),
			wantStore:   1,
			wantGeo:     1,
		},
		{
			name:      "store failure skips the geo purge",
			maxAge:    time.Hour,
			storeErr:  errors.New("database is locked"),
			wantStore: 1,
		},
		{
			name:   "zero max age disables purging",
			maxAge: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakePurger{deleted: 12, err: tt.storeErr}
			geo := &fakeGeoPurger{}
			svc := NewRetentionService(store, geo, config.RetentionConfig{Enabled: true, MaxAge: tt.maxAge, Interval: time.Hour})
			svc.now = func() time.Time { return now }

			if got := svc.RunOnce(context.Background()); got != tt.wantDeleted {
				t.Errorf("RunOnce() = %d, want %d", got, tt.wantDeleted)
			}
			if store.calls() != tt.wantStore {
				t.Fatalf("store calls = %d, want %d", store.calls(), tt.wantStore)
			}
			if tt.wantStore > 0 && tt.storeErr == nil && !store.cutoffs[0].Equal(tt.wantCutoff) {
				t.Errorf("cutoff = %v, want %v", store.cutoffs[0], tt.wantCutoff)
			}
			if geo.count() != tt.wantGeo {
				t.Errorf("geo purges = %d, want %d", geo.count(), tt.wantGeo)
			}
		})
	}
}

func TestRetentionService_NilGeoCache(t *testing.T) {
	store := &fakePurger{deleted: 1}
	svc := NewRetentionService(store, nil, config.RetentionConfig{MaxAge: time.Hour})

	if got := svc.RunOnce(context.Background()); got != 1 {
		t.Errorf("RunOnce() = %d, want 1", got)
	}
	if svc.config.Interval != time.Hour {
		t.Errorf("default interval = %v, want 1h", svc.config.Interval)
	}
}

func TestRetentionService_Serve(t *testing.T) {
	var _ suture.Service = (*RetentionService)(nil)

	store := &fakePurger{}
	geo := &fakeGeoPurger{}
	svc := NewRetentionService(store, geo, config.RetentionConfig{
		Enabled:  true,
		MaxAge:   time.Hour,
		Interval: 20 * time.Millisecond,
	})
	if svc.String() != "retention" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	// One pass on start, then one per tick.
	waitFor(t, func() bool { return store.calls() >= 3 })
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if geo.count() < 3 {
		t.Errorf("geo purges = %d, want at least 3", geo.count())
	}
}
