// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package eventbus

import "errors"

// ErrNATSNotEnabled is returned when the binary was built without -tags nats.
var ErrNATSNotEnabled = errors.New("NATS attack mirror not enabled (build with -tags nats)")

// ErrInvalidConfig is returned when the mirror configuration is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrPublisherClosed is returned by publishes after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// ErrNilPublisher is returned when a mirror is built without a publisher.
var ErrNilPublisher = errors.New("publisher cannot be nil")
