// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

// Package geoip resolves source addresses to locations.
//
// Resolver fronts a Provider with a bounded TTL cache, request coalescing,
// a process-wide rate limiter and a circuit breaker. Resolution never
// fails: private sources map to a fixed record and lookup failures map to
// an Unknown record.
package geoip

import (
	"context"
	"errors"

	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// ErrLookupFailed is wrapped when a provider answered but could not locate
// the address.
var ErrLookupFailed = errors.New("geolocation lookup failed")

// Provider looks up the location of a single public address.
type Provider interface {
	// Lookup returns the location of ipAddress or an error.
	Lookup(ctx context.Context, ipAddress string) (models.LocationRecord, error)

	// Name returns the provider name for logging and metrics.
	Name() string
}
