// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

//go:build !nats

package eventbus

import "context"

// Components is a stub when the binary is built without -tags nats.
type Components struct{}

// NewComponents returns ErrNATSNotEnabled.
func NewComponents(cfg Config, feed Feed) (*Components, error) {
	return nil, ErrNATSNotEnabled
}

// Start returns ErrNATSNotEnabled.
func (c *Components) Start(ctx context.Context) error {
	return ErrNATSNotEnabled
}

// Shutdown is a no-op.
func (c *Components) Shutdown(ctx context.Context) {}

// IsRunning always returns false.
func (c *Components) IsRunning() bool {
	return false
}

// Done returns nil.
func (c *Components) Done() <-chan struct{} {
	return nil
}

// ClientURL returns an empty string.
func (c *Components) ClientURL() string {
	return ""
}

// Forwarded always returns 0.
func (c *Components) Forwarded() uint64 {
	return 0
}
