// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package geoip

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/RayaneAll/honeypot-attack-map/internal/cache"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// Config controls caching and outbound pacing.
type Config struct {
	// MinInterval is the minimum spacing between external lookups.
	MinInterval time.Duration

	// Timeout bounds one external lookup.
	Timeout time.Duration

	// CacheTTL is the freshness window of a cached record.
	CacheTTL time.Duration

	// CacheSize bounds the number of cached addresses.
	CacheSize int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinInterval: 100 * time.Millisecond,
		Timeout:     10 * time.Second,
		CacheTTL:    24 * time.Hour,
		CacheSize:   10000,
	}
}

// Resolver maps addresses to locations. It is safe for concurrent use.
type Resolver struct {
	provider Provider
	cache    *cache.LRU[models.LocationRecord]
	limiter  *rate.Limiter
	group    singleflight.Group
	timeout  time.Duration

	mu  sync.RWMutex
	now func() time.Time

	lookups atomic.Uint64
}

// NewResolver creates a resolver in front of provider.
func NewResolver(provider Provider, cfg Config) *Resolver {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Resolver{
		provider: provider,
		cache:    cache.NewLRU[models.LocationRecord](cfg.CacheSize, cfg.CacheTTL),
		limiter:  rate.NewLimiter(limit, 1),
		timeout:  cfg.Timeout,
		now:      time.Now,
	}
}

// SetClock replaces the time source for cache freshness and record stamps.
// Intended for tests.
func (r *Resolver) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
	r.cache.SetClock(now)
}

func (r *Resolver) clock() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.now()
}

// Resolve returns the location of ipAddress. It never fails: invalid or
// unspecified input yields the Unknown record, private sources the Private Network record and
// lookup failures a cached Unknown record.
func (r *Resolver) Resolve(ctx context.Context, ipAddress string) models.LocationRecord {
	addr, ok := ParseAddress(ipAddress)
	if !ok || addr.IsUnspecified() {
		metrics.RecordGeoLookup("invalid")
		return r.stamp(models.UnknownRecord())
	}

	if isPrivateAddr(addr) {
		metrics.RecordGeoLookup("private")
		return r.stamp(models.PrivateNetworkRecord())
	}

	key := addr.String()
	if record, ok := r.cache.Get(key); ok {
		metrics.RecordGeoLookup("cached")
		return record
	}

	// The shared lookup is detached from the caller that started it; each
	// caller only stops waiting when its own context ends.
	ch := r.group.DoChan(key, func() (interface{}, error) {
		// A coalesced caller may have populated the entry meanwhile.
		if record, ok := r.cache.Get(key); ok {
			return record, nil
		}
		return r.lookup(context.WithoutCancel(ctx), key), nil
	})

	select {
	case res := <-ch:
		return res.Val.(models.LocationRecord)
	case <-ctx.Done():
		metrics.RecordGeoLookup("fallback")
		return r.stamp(models.UnknownRecord())
	}
}

func (r *Resolver) lookup(ctx context.Context, key string) models.LocationRecord {
	log := logging.Ctx(ctx).With().Str("component", "geoip").Str("ip", key).Logger()

	if err := r.limiter.Wait(ctx); err != nil {
		log.Debug().Err(err).Msg("Lookup abandoned while waiting for rate limiter")
		metrics.RecordGeoLookup("fallback")
		return r.stamp(models.UnknownRecord())
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.lookups.Add(1)
	start := time.Now()
	record, err := r.provider.Lookup(lookupCtx, key)
	metrics.GeolocationAPICallDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		record = r.stamp(models.UnknownRecord())
		if errors.Is(err, ErrLookupFailed) {
			log.Debug().Err(err).Str("provider", r.provider.Name()).Msg("Provider could not locate address")
		} else {
			log.Warn().Err(err).Str("provider", r.provider.Name()).Msg("Geolocation lookup failed")
		}
		metrics.RecordGeoLookup("fallback")
	} else {
		record.ResolvedAt = r.clock().UTC()
		metrics.RecordGeoLookup("resolved")
	}

	r.cache.Add(key, record)
	metrics.GeolocationCacheEntries.Set(float64(r.cache.Len()))
	return record
}

func (r *Resolver) stamp(record models.LocationRecord) models.LocationRecord {
	record.ResolvedAt = r.clock().UTC()
	return record
}

// Purge drops every cached record and returns how many were removed.
func (r *Resolver) Purge() int {
	n := r.cache.Clear()
	metrics.GeolocationCacheEntries.Set(0)
	return n
}

// PurgeExpired drops stale records and returns how many were removed.
func (r *Resolver) PurgeExpired() int {
	n := r.cache.CleanupExpired()
	metrics.GeolocationCacheEntries.Set(float64(r.cache.Len()))
	return n
}

// Stats describes the cache and the number of external lookups made.
func (r *Resolver) Stats() models.GeoCacheStats {
	valid, expired := r.cache.Counts()
	return models.GeoCacheStats{
		Total:    valid + expired,
		Valid:    valid,
		Expired:  expired,
		Capacity: r.cache.Capacity(),
		Lookups:  r.lookups.Load(),
		TTL:      r.cache.TTL().String(),
	}
}
