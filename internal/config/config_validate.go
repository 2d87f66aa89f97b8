// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package config

import (
	"fmt"
	"time"
)

// Validate checks that every section holds usable values.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateHoneypot,
		c.validateGeoIP,
		c.validateDatabase,
		c.validateRetention,
		c.validateServer,
		c.validateAPI,
		c.validateRateLimits,
		c.validateNATS,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateHoneypot() error {
	if len(c.Honeypot.Ports) == 0 {
		return fmt.Errorf("HONEYPOT_PORTS must list at least one port")
	}
	for _, port := range c.Honeypot.Ports {
		if port < 1 || port > 65535 {
			return fmt.Errorf("HONEYPOT_PORTS contains invalid port %d (must be 1-65535)", port)
		}
		if port == c.Server.Port {
			return fmt.Errorf("HONEYPOT_PORTS must not include HTTP_PORT (%d)", port)
		}
	}
	if c.Honeypot.ReadTimeout <= 0 {
		return fmt.Errorf("HONEYPOT_READ_TIMEOUT must be positive")
	}
	if c.Honeypot.ReadLimit < 0 || c.Honeypot.ReadLimit > 64*1024 {
		return fmt.Errorf("HONEYPOT_READ_LIMIT must be between 0 and 65536 bytes")
	}
	if c.Honeypot.ShutdownTimeout <= 0 {
		return fmt.Errorf("HONEYPOT_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Honeypot.MaxRestarts < 0 {
		return fmt.Errorf("HONEYPOT_MAX_RESTARTS must not be negative")
	}
	return nil
}

func (c *Config) validateGeoIP() error {
	if err := validateHTTPURL(c.GeoIP.URL, "GEOIP_URL"); err != nil {
		return err
	}
	if c.GeoIP.Timeout <= 0 {
		return fmt.Errorf("GEOIP_TIMEOUT must be positive")
	}
	if c.GeoIP.MinInterval < 0 {
		return fmt.Errorf("GEOIP_MIN_INTERVAL must not be negative")
	}
	if c.GeoIP.CacheTTL <= 0 {
		return fmt.Errorf("GEOIP_CACHE_TTL must be positive")
	}
	if c.GeoIP.CacheSize < 1 {
		return fmt.Errorf("GEOIP_CACHE_SIZE must be at least 1")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateRetention() error {
	if !c.Retention.Enabled {
		return nil
	}
	if c.Retention.MaxAge < time.Hour {
		return fmt.Errorf("RETENTION_MAX_AGE must be at least 1h")
	}
	if c.Retention.Interval < time.Minute {
		return fmt.Errorf("RETENTION_INTERVAL must be at least 1m")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// maxAPIPageSize mirrors the store's hard query bound.
const maxAPIPageSize = 1000

func (c *Config) validateAPI() error {
	if c.API.MaxPageSize < 1 || c.API.MaxPageSize > maxAPIPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be between 1 and %d", maxAPIPageSize)
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE")
	}
	if c.API.TopN < 1 || c.API.TopN > 100 {
		return fmt.Errorf("STATS_TOP_N must be between 1 and 100")
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("NATS_SUBJECT is required when NATS_ENABLED=true")
	}
	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required for the embedded server")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
