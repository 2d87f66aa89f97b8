// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package ingest

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/database"
	"github.com/RayaneAll/honeypot-attack-map/internal/geoip"
	"github.com/RayaneAll/honeypot-attack-map/internal/honeypot"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
	"github.com/RayaneAll/honeypot-attack-map/internal/websocket"
)

// countingProvider fails the test through its call count if consulted for
// private sources.
type countingProvider struct {
	calls atomic.Int32
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Lookup(_ context.Context, _ string) (models.LocationRecord, error) {
	p.calls.Add(1)
	return models.LocationRecord{
		Country:   "Netherlands",
		City:      "Amsterdam",
		Region:    "North Holland",
		Timezone:  "Europe/Amsterdam",
		ISP:       "Example Hosting",
		Latitude:  52.37,
		Longitude: 4.89,
	}, nil
}

type stack struct {
	db       *database.DB
	provider *countingProvider
	hub      *websocket.Hub
	feed     *websocket.ChannelSubscriber
	pipeline *Pipeline
}

func newStack(t *testing.T) *stack {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	provider := &countingProvider{}
	cfg := geoip.DefaultConfig()
	cfg.MinInterval = 0
	resolver := geoip.NewResolver(provider, cfg)

	hub := websocket.NewHub()
	feed := websocket.NewChannelSubscriber(256)
	hub.Subscribe(feed)

	pipeline, err := New(resolver, db, hub)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &stack{db: db, provider: provider, hub: hub, feed: feed, pipeline: pipeline}
}

// honeypotPort prefers 9000 and falls back to an ephemeral port when it is
// taken.
func honeypotPort() int {
	ln, err := net.Listen("tcp", "127.0.0.1:9000")
	if err != nil {
		return 0
	}
	_ = ln.Close()
	return 9000
}

func TestLoopbackConnectionBecomesEvent(t *testing.T) {
	s := newStack(t)

	port := honeypotPort()
	sup := honeypot.NewSupervisor(config.HoneypotConfig{
		Host:            "127.0.0.1",
		ReadTimeout:     500 * time.Millisecond,
		ReadLimit:       1024,
		Banners:         true,
		ShutdownTimeout: time.Second,
		MaxRestarts:     1,
		RestartBackoff:  10 * time.Millisecond,
	}, s.pipeline)
	if err := sup.Start(context.Background(), []int{port}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer sup.Stop()

	listener, ok := sup.Listener(port)
	if !ok {
		t.Fatalf("no listener for port %d", port)
	}
	addr := listener.Addr().String()

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	_, _ = conn.Write([]byte("hello\r\n"))
	_ = conn.Close()

	var msg websocket.Message
	select {
	case msg = <-s.feed.Messages():
	case <-time.After(3 * time.Second):
		t.Fatal("no broadcast within 3s")
	}

	if msg.Type != websocket.MessageTypeNewAttack || msg.Seq != 1 {
		t.Errorf("message = %s/%d, want new_attack/1", msg.Type, msg.Seq)
	}
	event, ok := msg.Data.(*models.AttackEvent)
	if !ok {
		t.Fatalf("Data is %T", msg.Data)
	}
	if event.ID != 1 {
		t.Errorf("ID = %d, want 1", event.ID)
	}
	if event.IPAddress != "127.0.0.1" {
		t.Errorf("IPAddress = %q, want 127.0.0.1", event.IPAddress)
	}
	if event.Country != models.PrivateNetworkCountry {
		t.Errorf("Country = %q, want %q", event.Country, models.PrivateNetworkCountry)
	}
	if event.Protocol != models.ProtocolTCP {
		t.Errorf("Protocol = %q, want TCP", event.Protocol)
	}

	stored, err := s.db.GetAttackByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetAttackByID() error = %v", err)
	}
	if stored.Country != models.PrivateNetworkCountry || stored.Port != event.Port {
		t.Errorf("stored = %+v, want the broadcast event", stored)
	}
	if calls := s.provider.calls.Load(); calls != 0 {
		t.Errorf("provider called %d times for a loopback source", calls)
	}
}

func TestConcurrentIngestPersistsEveryCapture(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			capture := models.Capture{
				SourceIP:   fmt.Sprintf("10.0.0.%d", i+1),
				DestPort:   22,
				Protocol:   models.ProtocolTCP,
				CapturedAt: time.Now().UTC(),
			}
			if _, err := s.pipeline.Ingest(ctx, capture); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Ingest() error = %v", err)
	}

	summary, err := s.db.GetAttackSummary(ctx, time.Now().UTC(), 5)
	if err != nil {
		t.Fatalf("GetAttackSummary() error = %v", err)
	}
	if summary.Total != n {
		t.Errorf("Total = %d, want %d", summary.Total, n)
	}

	var last uint64
	seen := map[int64]bool{}
	for i := 0; i < n; i++ {
		msg := <-s.feed.Messages()
		event := msg.Data.(*models.AttackEvent)
		if seen[event.ID] {
			t.Errorf("id %d broadcast twice", event.ID)
		}
		seen[event.ID] = true
		if msg.Seq <= last {
			t.Errorf("seq %d after %d", msg.Seq, last)
		}
		last = msg.Seq
	}
}
