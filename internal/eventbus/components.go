// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

//go:build nats

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
)

// Components owns the embedded server, the publisher and the mirror.
//
// Start and Shutdown may be called repeatedly: each Start builds a fresh
// set, each Shutdown tears it down in reverse order.
type Components struct {
	cfg  Config
	feed Feed

	mu        sync.Mutex
	server    *EmbeddedServer
	publisher *Publisher
	mirror    *Mirror
}

// NewComponents validates cfg. Nothing is started until Start.
func NewComponents(cfg Config, feed Feed) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if feed == nil {
		return nil, errors.New("feed cannot be nil")
	}
	return &Components{cfg: cfg, feed: feed}, nil
}

// Start brings up the embedded server when configured, connects the
// publisher and starts the mirror.
func (c *Components) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mirror != nil && c.mirror.IsRunning() {
		return nil
	}

	url := c.cfg.URL
	if c.cfg.EmbeddedServer {
		if c.server == nil {
			srv, err := NewEmbeddedServer(&c.cfg.Server)
			if err != nil {
				return fmt.Errorf("start embedded NATS server: %w", err)
			}
			c.server = srv
			logging.Info().
				Str("component", "eventbus").
				Str("url", srv.ClientURL()).
				Bool("jetstream", srv.JetStreamEnabled()).
				Msg("embedded NATS server started")
		}
		url = c.server.ClientURL()
	}

	if c.publisher == nil {
		pub, err := NewPublisher(url, c.cfg.Subject, c.cfg.Publisher, logging.NewWatermillAdapter())
		if err != nil {
			return fmt.Errorf("create NATS publisher: %w", err)
		}
		pub.SetCircuitBreaker(NewCircuitBreaker(c.cfg.Breaker))
		c.publisher = pub
	}

	mirror, err := NewMirror(c.feed, c.publisher, c.cfg.Buffer)
	if err != nil {
		return err
	}
	if err := mirror.Start(ctx); err != nil {
		return fmt.Errorf("start attack mirror: %w", err)
	}
	c.mirror = mirror

	logging.Info().
		Str("component", "eventbus").
		Str("url", url).
		Str("subject", c.cfg.Subject).
		Msg("NATS attack mirror running")
	return nil
}

// Shutdown stops the mirror, closes the publisher and stops the embedded
// server.
func (c *Components) Shutdown(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mirror != nil {
		c.mirror.Shutdown(ctx)
		c.mirror = nil
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Warn().Str("component", "eventbus").Err(err).Msg("failed to close NATS publisher")
		}
		c.publisher = nil
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Warn().Str("component", "eventbus").Err(err).Msg("embedded NATS server shutdown incomplete")
		}
		c.server = nil
	}
}

// IsRunning reports whether the mirror is forwarding.
func (c *Components) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mirror != nil && c.mirror.IsRunning()
}

// Done is closed when the running mirror stops. It is nil when stopped.
func (c *Components) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mirror == nil {
		return nil
	}
	return c.mirror.Done()
}

// ClientURL returns the URL the publisher connects to.
func (c *Components) ClientURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.server != nil {
		return c.server.ClientURL()
	}
	return c.cfg.URL
}

// Forwarded returns the number of attacks published by the current run.
func (c *Components) Forwarded() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mirror == nil {
		return 0
	}
	return c.mirror.Forwarded()
}
