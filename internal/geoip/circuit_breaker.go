// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package geoip

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// BreakerProvider wraps a Provider with a circuit breaker so that an
// unavailable lookup service is not hammered while it recovers.
//
// Circuit breaker configuration:
//   - Max 3 requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
// Caller cancellation and "fail" answers (ErrLookupFailed) are excluded
// from the counts.
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker[models.LocationRecord]
	name string
}

// NewBreakerProvider wraps next with the default breaker settings.
func NewBreakerProvider(next Provider) *BreakerProvider {
	return newBreakerProvider(next, gobreaker.Settings{
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Str("component", "geoip").Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},
	})
}

func newBreakerProvider(next Provider, st gobreaker.Settings) *BreakerProvider {
	name := next.Name() + "-lookup"
	st.Name = name
	st.IsExcluded = isExcludedLookupError
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		logging.Info().Str("component", "geoip").Str("breaker", name).
			Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")

		metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		if to == gobreaker.StateClosed {
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
		}
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	return &BreakerProvider{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[models.LocationRecord](st),
		name: name,
	}
}

// Name returns the wrapped provider name.
func (b *BreakerProvider) Name() string {
	return b.next.Name()
}

// State returns the current breaker state.
func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}

// Lookup runs the wrapped lookup through the breaker.
func (b *BreakerProvider) Lookup(ctx context.Context, ipAddress string) (models.LocationRecord, error) {
	record, err := b.cb.Execute(func() (models.LocationRecord, error) {
		return b.next.Lookup(ctx, ipAddress)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		}
		return models.LocationRecord{}, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return record, nil
}

func isExcludedLookupError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, ErrLookupFailed)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
