// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package eventbus

import (
	"errors"
	"testing"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.NATSConfig{
		Enabled:        true,
		URL:            "nats://10.0.0.5:4333",
		EmbeddedServer: true,
		StoreDir:       "/var/lib/honeypot/nats",
		Subject:        "sensors.attacks",
	})

	if cfg.Subject != "sensors.attacks" {
		t.Errorf("Subject = %q", cfg.Subject)
	}
	if cfg.Server.Host != "10.0.0.5" || cfg.Server.Port != 4333 {
		t.Errorf("embedded server = %s:%d, want 10.0.0.5:4333", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.StoreDir != "/var/lib/honeypot/nats" {
		t.Errorf("StoreDir = %q", cfg.Server.StoreDir)
	}
	if !cfg.EmbeddedServer {
		t.Error("EmbeddedServer = false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestFromAppConfig_Defaults(t *testing.T) {
	cfg := FromAppConfig(config.NATSConfig{})

	if cfg.Subject != DefaultSubject {
		t.Errorf("Subject = %q, want %q", cfg.Subject, DefaultSubject)
	}
	if cfg.URL != "nats://127.0.0.1:4222" || cfg.Server.Port != 4222 {
		t.Errorf("URL = %q port %d", cfg.URL, cfg.Server.Port)
	}
	if cfg.Breaker.Name != "nats-publisher" {
		t.Errorf("Breaker.Name = %q", cfg.Breaker.Name)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty subject", func(c *Config) { c.Subject = " " }, true},
		{"wildcard subject", func(c *Config) { c.Subject = "honeypot.*" }, true},
		{"zero buffer", func(c *Config) { c.Buffer = 0 }, true},
		{"embedded without store", func(c *Config) { c.Server.StoreDir = "" }, true},
		{"embedded random port", func(c *Config) { c.Server.Port = -1 }, false},
		{"embedded port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"external url", func(c *Config) { c.EmbeddedServer = false; c.URL = "nats://broker:4222" }, false},
		{"external bad url", func(c *Config) { c.EmbeddedServer = false; c.URL = "not a url" }, true},
		{"external store ignored", func(c *Config) { c.EmbeddedServer = false; c.Server.StoreDir = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}
