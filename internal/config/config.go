// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

// Package config loads the service configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (CONFIG_PATH, ./config.yaml or /etc/honeypot/config.yaml)
//  3. Environment Variables: override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	db, err := database.New(&cfg.Database)
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Honeypot  HoneypotConfig  `koanf:"honeypot"`
	GeoIP     GeoIPConfig     `koanf:"geoip"`
	Database  DatabaseConfig  `koanf:"database"`
	Retention RetentionConfig `koanf:"retention"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	NATS      NATSConfig      `koanf:"nats"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// HoneypotConfig configures the listening ports and per-connection handling.
type HoneypotConfig struct {
	// Ports to listen on.
	// Env: HONEYPOT_PORTS (comma separated, default: 22,23,80,443,3389,5432,3306)
	Ports []int `koanf:"ports"`

	// Host is the bind address for every port.
	// Env: HONEYPOT_HOST (default: 0.0.0.0)
	Host string `koanf:"host"`

	// ReadTimeout bounds the wait for peer data after accept.
	// Env: HONEYPOT_READ_TIMEOUT (default: 5s)
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// ReadLimit caps the bytes read from each connection.
	// Env: HONEYPOT_READ_LIMIT (default: 1024)
	ReadLimit int `koanf:"read_limit"`

	// Banners enables the per-port greeting (SSH banner on 22).
	// Env: HONEYPOT_BANNERS (default: true)
	Banners bool `koanf:"banners"`

	// ShutdownTimeout bounds the join of in-flight captures on stop.
	// Env: HONEYPOT_SHUTDOWN_TIMEOUT (default: 5s)
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// MaxRestarts is the number of consecutive rebind attempts before a port
	// is marked failed.
	// Env: HONEYPOT_MAX_RESTARTS (default: 5)
	MaxRestarts int `koanf:"max_restarts"`

	// RestartBackoff is the delay between rebind attempts.
	// Env: HONEYPOT_RESTART_BACKOFF (default: 2s)
	RestartBackoff time.Duration `koanf:"restart_backoff"`
}

// GeoIPConfig configures the geolocation resolver.
type GeoIPConfig struct {
	// URL is the ip-api compatible lookup endpoint.
	// Env: GEOIP_URL (default: http://ip-api.com/json)
	URL string `koanf:"url"`

	// Timeout bounds a single external lookup.
	// Env: GEOIP_TIMEOUT (default: 10s)
	Timeout time.Duration `koanf:"timeout"`

	// MinInterval is the process-wide spacing between external lookups.
	// Env: GEOIP_MIN_INTERVAL (default: 100ms)
	MinInterval time.Duration `koanf:"min_interval"`

	// CacheTTL is the freshness window of a cached result.
	// Env: GEOIP_CACHE_TTL (default: 24h)
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// CacheSize bounds the number of cached addresses.
	// Env: GEOIP_CACHE_SIZE (default: 10000)
	CacheSize int `koanf:"cache_size"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// RetentionConfig drives the periodic purge of old events.
type RetentionConfig struct {
	Enabled  bool          `koanf:"enabled"`
	MaxAge   time.Duration `koanf:"max_age"`
	Interval time.Duration `koanf:"interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// Addr returns the listen address of the HTTP server.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// APIConfig holds API pagination and aggregation settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
	TopN            int `koanf:"top_n"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// NATSConfig configures the optional attack mirror.
// The mirror is only compiled into binaries built with -tags nats.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	Subject        string `koanf:"subject"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
