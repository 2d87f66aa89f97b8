// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/honeypot/config.yaml",
	"/etc/honeypot/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultPorts are the ports watched when none are configured.
var DefaultPorts = []int{22, 23, 80, 443, 3389, 5432, 3306}

func defaultConfig() *Config {
	ports := make([]int, len(DefaultPorts))
	copy(ports, DefaultPorts)

	return &Config{
		Honeypot: HoneypotConfig{
			Ports:           ports,
			Host:            "0.0.0.0",
			ReadTimeout:     5 * time.Second,
			ReadLimit:       1024,
			Banners:         true,
			ShutdownTimeout: 5 * time.Second,
			MaxRestarts:     5,
			RestartBackoff:  2 * time.Second,
		},
		GeoIP: GeoIPConfig{
			URL:         "http://ip-api.com/json",
			Timeout:     10 * time.Second,
			MinInterval: 100 * time.Millisecond,
			CacheTTL:    24 * time.Hour,
			CacheSize:   10000,
		},
		Database: DatabaseConfig{
			Path:      "./data/honeypot.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Retention: RetentionConfig{
			Enabled:  true,
			MaxAge:   30 * 24 * time.Hour,
			Interval: time.Hour,
		},
		Server: ServerConfig{
			Port:    8000,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 100,
			MaxPageSize:     1000,
			TopN:            5,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "./data/nats",
			Subject:        "honeypot.attacks",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config file (optional)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// HONEYPOT_PORTS -> honeypot.ports, DUCKDB_PATH -> database.path, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set by env.
var sliceConfigPaths = []string{
	"honeypot.ports",
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
// Values that are already slices (defaults, YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
var envMappings = map[string]string{
	// Honeypot listeners
	"honeypot_ports":            "honeypot.ports",
	"honeypot_host":             "honeypot.host",
	"honeypot_read_timeout":     "honeypot.read_timeout",
	"honeypot_read_limit":       "honeypot.read_limit",
	"honeypot_banners":          "honeypot.banners",
	"honeypot_shutdown_timeout": "honeypot.shutdown_timeout",
	"honeypot_max_restarts":     "honeypot.max_restarts",
	"honeypot_restart_backoff":  "honeypot.restart_backoff",

	// Geolocation
	"geoip_url":          "geoip.url",
	"geoip_timeout":      "geoip.timeout",
	"geoip_min_interval": "geoip.min_interval",
	"geoip_cache_ttl":    "geoip.cache_ttl",
	"geoip_cache_size":   "geoip.cache_size",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Retention
	"retention_enabled":  "retention.enabled",
	"retention_max_age":  "retention.max_age",
	"retention_interval": "retention.interval",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"stats_top_n":           "api.top_n",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// NATS mirror
	"nats_enabled":   "nats.enabled",
	"nats_url":       "nats.url",
	"nats_embedded":  "nats.embedded_server",
	"nats_store_dir": "nats.store_dir",
	"nats_subject":   "nats.subject",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its config path.
// Unmapped variables return "" so that koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
