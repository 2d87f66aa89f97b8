// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

// Package ingest turns raw captures into persisted, broadcast attack events.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// Resolver maps a source address to a location. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, ip string) models.LocationRecord
}

// Store persists events and assigns their ids.
type Store interface {
	AppendAttack(ctx context.Context, event *models.AttackEvent) (int64, error)
}

// Publisher delivers persisted events to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, event *models.AttackEvent) error
}

// Pipeline runs capture -> geolocation -> persistence -> dispatch.
//
// Persistence and dispatch run under one lock, so subscribers see events
// in the order the store assigned their ids. Geolocation runs outside the
// lock.
type Pipeline struct {
	resolver  Resolver
	store     Store
	publisher Publisher

	mu sync.Mutex
}

// New creates a pipeline. All collaborators are required.
func New(resolver Resolver, store Store, publisher Publisher) (*Pipeline, error) {
	if resolver == nil || store == nil || publisher == nil {
		return nil, errors.New("ingest pipeline requires a resolver, a store and a publisher")
	}
	return &Pipeline{
		resolver:  resolver,
		store:     store,
		publisher: publisher,
	}, nil
}

// Ingest processes one capture and returns the persisted event. A publish
// failure is logged and does not fail the call; a persistence failure does,
// and nothing is broadcast.
func (p *Pipeline) Ingest(ctx context.Context, capture models.Capture) (*models.AttackEvent, error) {
	start := time.Now()
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.Ctx(ctx)

	if capture.CapturedAt.IsZero() {
		capture.CapturedAt = time.Now().UTC()
	}

	location := p.resolver.Resolve(ctx, capture.SourceIP)
	event := models.NewAttackEvent(capture, location)
	risk := string(event.RiskLevel())

	if err := event.Validate(); err != nil {
		metrics.RecordIngest(event.Protocol, risk, "validate", time.Since(start))
		logger.Warn().
			Str("component", "ingest").
			Str("source_ip", capture.SourceIP).
			Int("port", capture.DestPort).
			Err(err).
			Msg("dropping invalid capture")
		return nil, fmt.Errorf("invalid capture: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.store.AppendAttack(ctx, event); err != nil {
		metrics.RecordIngest(event.Protocol, risk, "persist", time.Since(start))
		logger.Error().
			Str("component", "ingest").
			Str("source_ip", event.IPAddress).
			Int("port", event.Port).
			Time("captured_at", event.Timestamp).
			Err(err).
			Msg("failed to persist attack")
		return nil, fmt.Errorf("persist attack from %s: %w", event.IPAddress, err)
	}

	if err := p.publisher.Publish(ctx, event); err != nil {
		metrics.IngestErrors.WithLabelValues("publish").Inc()
		logger.Warn().
			Str("component", "ingest").
			Int64("attack_id", event.ID).
			Err(err).
			Msg("failed to broadcast attack")
	}

	metrics.RecordIngest(event.Protocol, risk, "", time.Since(start))
	logger.Info().
		Str("component", "ingest").
		Int64("attack_id", event.ID).
		Str("source_ip", event.IPAddress).
		Int("port", event.Port).
		Str("country", event.Country).
		Str("risk_level", risk).
		Msg("attack recorded")

	return event, nil
}
