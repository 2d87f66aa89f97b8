// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
)

// ErrMirrorStopped is returned when the mirror stops on its own, for
// example after the hub dropped a mirror that fell behind.
var ErrMirrorStopped = errors.New("attack mirror stopped unexpectedly")

// MirrorRunner is satisfied by *eventbus.Components.
type MirrorRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
	Done() <-chan struct{}
}

// NATSMirrorService adapts the mirror's Start/Shutdown lifecycle to
// suture's Serve:
//  1. Start(ctx)
//  2. wait for cancellation or for the mirror to stop by itself
//  3. Shutdown with a fresh context bounded by shutdownTimeout
//
// A mirror that stops by itself is reported as a failure so that suture
// restarts it with a new hub subscription.
type NATSMirrorService struct {
	mirror          MirrorRunner
	shutdownTimeout time.Duration
	name            string
}

// NewNATSMirrorService wraps mirror. A non-positive shutdownTimeout means 10s.
func NewNATSMirrorService(mirror MirrorRunner, shutdownTimeout time.Duration) *NATSMirrorService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSMirrorService{
		mirror:          mirror,
		shutdownTimeout: shutdownTimeout,
		name:            "nats-mirror",
	}
}

// Serve implements suture.Service.
func (s *NATSMirrorService) Serve(ctx context.Context) error {
	if err := s.mirror.Start(ctx); err != nil {
		return fmt.Errorf("NATS mirror start failed: %w", err)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		serveErr = ctx.Err()
	case <-s.mirror.Done():
		logging.Warn().Str("component", s.name).Msg("attack mirror lost its feed subscription, restarting")
		serveErr = ErrMirrorStopped
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.mirror.Shutdown(shutdownCtx)

	return serveErr
}

// String implements fmt.Stringer for suture's logs.
func (s *NATSMirrorService) String() string {
	return s.name
}
