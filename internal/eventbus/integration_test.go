// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

//go:build nats

package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"

	"github.com/RayaneAll/honeypot-attack-map/internal/models"
	ws "github.com/RayaneAll/honeypot-attack-map/internal/websocket"
)

func embeddedTestConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Server.Port = -1
	cfg.Server.StoreDir = t.TempDir()
	cfg.Server.ReadyTimeout = 10 * time.Second
	return cfg
}

func TestComponents_MirrorsAttacksToNATS(t *testing.T) {
	hub := ws.NewHub()
	components, err := NewComponents(embeddedTestConfig(t), hub)
	if err != nil {
		t.Fatalf("NewComponents() error = %v", err)
	}
	if err := components.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer components.Shutdown(shutdownCtx(t))

	if !components.IsRunning() {
		t.Fatal("IsRunning() = false after Start")
	}

	nc, err := natsgo.Connect(components.ClientURL())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer nc.Close()

	sub, err := nc.SubscribeSync(DefaultSubject)
	if err != nil {
		t.Fatalf("SubscribeSync() error = %v", err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if err := hub.Publish(context.Background(), newAttack(7, 22)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	msg, err := sub.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("NextMsg() error = %v", err)
	}

	var got models.AttackEvent
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.ID != 7 || got.Port != 22 || got.IPAddress != "203.0.113.9" {
		t.Errorf("payload = %+v", got)
	}
	if msg.Header.Get("attack_id") != "7" {
		t.Errorf("attack_id header = %q", msg.Header.Get("attack_id"))
	}
	if msg.Header.Get("risk_level") != string(models.RiskCritical) {
		t.Errorf("risk_level header = %q", msg.Header.Get("risk_level"))
	}
	if msg.Header.Get(natsgo.MsgIdHdr) == "" {
		t.Error("Nats-Msg-Id header missing")
	}

	waitUntil(t, "forwarded counter", func() bool { return components.Forwarded() == 1 })
}

func TestComponents_RestartAfterShutdown(t *testing.T) {
	hub := ws.NewHub()
	components, err := NewComponents(embeddedTestConfig(t), hub)
	if err != nil {
		t.Fatalf("NewComponents() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := components.Start(context.Background()); err != nil {
			t.Fatalf("Start() #%d error = %v", i+1, err)
		}
		if hub.SubscriberCount() != 1 {
			t.Errorf("SubscriberCount() = %d, want 1", hub.SubscriberCount())
		}
		components.Shutdown(shutdownCtx(t))
		if components.IsRunning() || hub.SubscriberCount() != 0 {
			t.Fatalf("components still running after Shutdown #%d", i+1)
		}
	}
}

func TestEmbeddedServer_JetStream(t *testing.T) {
	cfg := embeddedTestConfig(t)
	srv, err := NewEmbeddedServer(&cfg.Server)
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	if !srv.IsRunning() || !srv.JetStreamEnabled() {
		t.Error("embedded server should be running with JetStream")
	}
	if err := srv.Shutdown(shutdownCtx(t)); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after Shutdown")
	}
}
