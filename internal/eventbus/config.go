// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package eventbus

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
)

// DefaultSubject is the subject attacks are published on.
const DefaultSubject = "honeypot.attacks"

// Config holds the mirror settings.
type Config struct {
	// URL of the NATS server. Ignored when EmbeddedServer is set.
	URL string

	// Subject every attack is published on.
	Subject string

	// Buffer is the mirror's hub subscription queue. A mirror that falls
	// this far behind is dropped by the hub and restarted by its service.
	Buffer int

	Server    ServerConfig
	Publisher PublisherConfig
	Breaker   CircuitBreakerConfig

	EmbeddedServer bool
}

// ServerConfig configures the embedded NATS server.
type ServerConfig struct {
	Host              string
	Port              int // -1 picks a random free port
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
	ReadyTimeout      time.Duration
}

// PublisherConfig holds the client reconnection settings.
type PublisherConfig struct {
	MaxReconnects   int // -1 for unlimited
	ReconnectWait   time.Duration
	ReconnectBuffer int
}

// CircuitBreakerConfig configures the publish breaker.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // allowed in half-open state
	Interval         time.Duration // reset interval for counts
	Timeout          time.Duration // time to stay open
	FailureThreshold uint32        // consecutive failures before opening
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		URL:            "nats://127.0.0.1:4222",
		Subject:        DefaultSubject,
		Buffer:         1024,
		EmbeddedServer: true,
		Server:         DefaultServerConfig(),
		Publisher:      DefaultPublisherConfig(),
		Breaker:        DefaultCircuitBreakerConfig("nats-publisher"),
	}
}

// DefaultServerConfig returns embedded server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "./data/nats",
		JetStreamMaxMem:   64 * 1024 * 1024,
		JetStreamMaxStore: 1024 * 1024 * 1024,
		ReadyTimeout:      30 * time.Second,
	}
}

// DefaultPublisherConfig returns client defaults.
func DefaultPublisherConfig() PublisherConfig {
	return PublisherConfig{
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		ReconnectBuffer: 8 * 1024 * 1024,
	}
}

// DefaultCircuitBreakerConfig returns breaker defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// FromAppConfig builds the mirror settings from the application config.
// The embedded server listens on the host and port of the configured URL.
func FromAppConfig(nc config.NATSConfig) Config {
	cfg := DefaultConfig()
	if nc.URL != "" {
		cfg.URL = nc.URL
	}
	if nc.Subject != "" {
		cfg.Subject = nc.Subject
	}
	cfg.EmbeddedServer = nc.EmbeddedServer
	if nc.StoreDir != "" {
		cfg.Server.StoreDir = nc.StoreDir
	}

	if u, err := url.Parse(cfg.URL); err == nil && u.Hostname() != "" {
		cfg.Server.Host = u.Hostname()
		if port := u.Port(); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				cfg.Server.Port = p
			}
		}
	}
	return cfg
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Subject, " *>") {
		return fmt.Errorf("%w: subject %q must be a literal subject", ErrInvalidConfig, c.Subject)
	}
	if c.Buffer < 1 {
		return fmt.Errorf("%w: buffer must be positive, got %d", ErrInvalidConfig, c.Buffer)
	}
	if c.EmbeddedServer {
		if c.Server.StoreDir == "" {
			return fmt.Errorf("%w: store dir is required for the embedded server", ErrInvalidConfig)
		}
		if c.Server.Port < -1 || c.Server.Port > 65535 {
			return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
		}
		return nil
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: invalid NATS URL %q", ErrInvalidConfig, c.URL)
	}
	return nil
}
