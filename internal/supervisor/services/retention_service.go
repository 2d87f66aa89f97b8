// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
)

// AttackPurger is satisfied by *database.DB.
type AttackPurger interface {
	PurgeAttacksOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// GeoCachePurger is satisfied by *geoip.Resolver.
type GeoCachePurger interface {
	PurgeExpired() int
}

// RetentionService periodically deletes attack events older than MaxAge
// and drops expired geolocation cache entries. A run also happens on start.
type RetentionService struct {
	store  AttackPurger
	geo    GeoCachePurger
	config config.RetentionConfig
	logger zerolog.Logger
	name   string
	now    func() time.Time

	// runTimeout bounds a single purge.
	runTimeout time.Duration
}

// NewRetentionService creates the retention service. geo may be nil.
func NewRetentionService(store AttackPurger, geo GeoCachePurger, cfg config.RetentionConfig) *RetentionService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &RetentionService{
		store:      store,
		geo:        geo,
		config:     cfg,
		logger:     logging.WithComponent("retention"),
		name:       "retention",
		now:        time.Now,
		runTimeout: 5 * time.Minute,
	}
}

// Serve implements suture.Service.
func (s *RetentionService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("max_age", s.config.MaxAge).
		Dur("interval", s.config.Interval).
		Msg("retention service starting")

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retention service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single retention pass and returns the number of
// attack events deleted. Failures are logged and counted, never returned,
// so a database hiccup does not make suture restart the loop.
func (s *RetentionService) RunOnce(ctx context.Context) int64 {
	if s.config.MaxAge <= 0 {
		return 0
	}

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	start := time.Now()
	cutoff := s.now().UTC().Add(-s.config.MaxAge)

	deleted, err := s.store.PurgeAttacksOlderThan(runCtx, cutoff)
	metrics.RecordRetentionRun(deleted, err)
	if err != nil {
		s.logger.Warn().Err(err).Time("cutoff", cutoff).Msg("retention purge failed")
		return 0
	}

	expired := 0
	if s.geo != nil {
		expired = s.geo.PurgeExpired()
	}

	s.logger.Info().
		Int64("deleted", deleted).
		Int("geo_expired", expired).
		Time("cutoff", cutoff).
		Dur("duration", time.Since(start)).
		Msg("retention pass complete")
	return deleted
}

// String implements fmt.Stringer for suture's logs.
func (s *RetentionService) String() string {
	return s.name
}
