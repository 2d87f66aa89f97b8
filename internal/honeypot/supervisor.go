// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package honeypot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// Supervisor owns the PortListeners of every configured port.
type Supervisor struct {
	cfg     config.HoneypotConfig
	handler Handler

	mu        sync.Mutex
	listeners map[int]*PortListener
	bindErrs  map[int]models.ListenerStatus
	cancel    context.CancelFunc
	done      <-chan error
	started   bool
	stopped   bool
}

// NewSupervisor creates a supervisor that hands captures to handler.
func NewSupervisor(cfg config.HoneypotConfig, handler Handler) *Supervisor {
	return &Supervisor{
		cfg:       cfg,
		handler:   handler,
		listeners: make(map[int]*PortListener),
		bindErrs:  make(map[int]models.ListenerStatus),
	}
}

// String implements fmt.Stringer for suture logs.
func (s *Supervisor) String() string {
	return "honeypot-supervisor"
}

// Start binds one listener per distinct port and begins accepting. A port
// that cannot be bound is logged and reported as failed; Start returns
// ErrNoListeners only when every port failed.
func (s *Supervisor) Start(ctx context.Context, ports []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	var bound []*PortListener
	var bindErrs []error
	seen := make(map[int]bool, len(ports))
	for _, port := range ports {
		if seen[port] {
			continue
		}
		seen[port] = true

		l := NewPortListener(port, s.cfg, s.handler)
		if err := l.Bind(ctx); err != nil {
			metrics.RecordCaptureError(port, "bind")
			logging.Warn().
				Str("component", "honeypot").
				Int("port", port).
				Err(err).
				Msg("failed to bind honeypot port")
			now := time.Now().UTC()
			s.bindErrs[port] = models.ListenerStatus{
				Port:      port,
				State:     StateFailed,
				LastError: err.Error(),
				Since:     &now,
			}
			bindErrs = append(bindErrs, err)
			continue
		}
		bound = append(bound, l)
	}

	if len(bound) == 0 {
		return fmt.Errorf("%w: %w", ErrNoListeners, errors.Join(bindErrs...))
	}

	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
	sup := suture.New("honeypot-listeners", suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: float64(s.cfg.MaxRestarts + 1),
		FailureDecay:     30,
		FailureBackoff:   s.restartBackoff(),
		Timeout:          2*s.shutdownTimeout() + time.Second,
	})
	for _, l := range bound {
		s.listeners[l.Port()] = l
		sup.Add(l)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = sup.ServeBackground(runCtx)
	s.started = true

	metrics.HoneypotListenersActive.Set(float64(len(bound)))
	logging.Info().
		Str("component", "honeypot").
		Int("bound", len(bound)).
		Int("failed", len(bindErrs)).
		Msg("honeypot started")
	return nil
}

func (s *Supervisor) restartBackoff() time.Duration {
	if s.cfg.RestartBackoff > 0 {
		return s.cfg.RestartBackoff
	}
	return 2 * time.Second
}

func (s *Supervisor) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return 5 * time.Second
}

// Stop closes every listening socket and joins accept loops and in-flight
// connections. It is safe to call more than once.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(2*s.shutdownTimeout() + 2*time.Second):
		logging.Error().Str("component", "honeypot").Msg("listeners did not stop in time")
	}

	metrics.HoneypotListenersActive.Set(0)
	logging.Info().Str("component", "honeypot").Msg("honeypot stopped")
}

// Serve implements suture.Service for the application tree. It runs until
// ctx is done and then stops every listener.
func (s *Supervisor) Serve(ctx context.Context) error {
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

// Status returns the state of every port, sorted by port.
func (s *Supervisor) Status() []models.ListenerStatus {
	s.mu.Lock()
	statuses := make([]models.ListenerStatus, 0, len(s.listeners)+len(s.bindErrs))
	for _, l := range s.listeners {
		statuses = append(statuses, l.Status())
	}
	for _, st := range s.bindErrs {
		statuses = append(statuses, st)
	}
	s.mu.Unlock()

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Port < statuses[j].Port
	})
	return statuses
}

// ActiveCount returns the number of ports currently listening.
func (s *Supervisor) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.listeners {
		if l.State() == StateListening {
			n++
		}
	}
	return n
}

// Listener returns the listener of port, if one was bound.
func (s *Supervisor) Listener(port int) (*PortListener, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listeners[port]
	return l, ok
}
