// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package geoip

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

// fakeProvider counts lookups and returns a fixed answer.
type fakeProvider struct {
	calls   atomic.Int32
	record  models.LocationRecord
	err     error
	started chan struct{} // closed on first call when non-nil
	release chan struct{} // lookups block on it when non-nil
	once    sync.Once

	mu    sync.Mutex
	times []time.Time
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Lookup(ctx context.Context, _ string) (models.LocationRecord, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.times = append(f.times, time.Now())
	f.mu.Unlock()

	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return models.LocationRecord{}, ctx.Err()
		}
	}
	if f.err != nil {
		return models.LocationRecord{}, f.err
	}
	return f.record, nil
}

func parisRecord() models.LocationRecord {
	return models.LocationRecord{
		Country:     "France",
		CountryCode: "FR",
		City:        "Paris",
		Region:      "Ile-de-France",
		Timezone:    "Europe/Paris",
		ISP:         "Example ISP",
		Latitude:    48.8566,
		Longitude:   2.3522,
	}
}

var errUnavailable = errors.New("connection refused")

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
