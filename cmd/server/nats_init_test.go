// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package main

import (
	"io"
	"testing"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/supervisor"
	ws "github.com/RayaneAll/honeypot-attack-map/internal/websocket"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

func TestInitNATS_Disabled(t *testing.T) {
	cfg := &config.Config{NATS: config.NATSConfig{Enabled: false}}

	components, err := initNATS(cfg, ws.NewHub())
	if err != nil {
		t.Fatalf("initNATS() error = %v", err)
	}
	if components != nil {
		t.Error("expected nil components when NATS is disabled")
	}
}

func TestAddNATSToSupervisor_Nil(t *testing.T) {
	tree, err := supervisor.NewSupervisorTree(nil, supervisor.DefaultTreeConfig())
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}

	// Must not panic or register anything.
	addNATSToSupervisor(tree, nil, 0)
}
