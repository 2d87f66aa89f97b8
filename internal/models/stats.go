// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package models

import (
	"time"
)

// AttackSummary is the aggregate view of the event store.
type AttackSummary struct {
	Total           int64           `json:"total_attacks"`
	Last24Hours     int64           `json:"attacks_last_24h"`
	LastHour        int64           `json:"attacks_last_hour"`
	UniqueCountries int64           `json:"unique_countries"`
	UniqueIPs       int64           `json:"unique_ips"`
	TopCountries    []CountryStats  `json:"top_countries"`
	TopPorts        []PortStats     `json:"top_ports"`
	TopProtocols    []ProtocolStats `json:"top_protocols"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// CountryStats counts attacks and distinct sources for a country.
type CountryStats struct {
	Country   string `json:"country"`
	Count     int64  `json:"count"`
	UniqueIPs int64  `json:"unique_ips"`
}

// PortStats counts attacks for a destination port.
type PortStats struct {
	Port      int       `json:"port"`
	Count     int64     `json:"count"`
	UniqueIPs int64     `json:"unique_ips,omitempty"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// ProtocolStats counts attacks for a protocol label.
type ProtocolStats struct {
	Protocol string `json:"protocol"`
	Count    int64  `json:"count"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status               string  `json:"status"`
	Version              string  `json:"version"`
	DatabaseConnected    bool    `json:"database_connected"`
	ActiveListeners      int     `json:"active_listeners"`
	WebSocketConnections int     `json:"websocket_connections"`
	Uptime               float64 `json:"uptime_seconds"`
}

// GeoCacheStats describes the geolocation cache.
type GeoCacheStats struct {
	Total    int    `json:"total_entries"`
	Valid    int    `json:"valid_entries"`
	Expired  int    `json:"expired_entries"`
	Capacity int    `json:"capacity"`
	Lookups  uint64 `json:"external_lookups"`
	TTL      string `json:"ttl"`
}

// ListenerStatus reports the state of one honeypot port.
type ListenerStatus struct {
	Port      int        `json:"port"`
	State     string     `json:"state"`
	Captures  uint64     `json:"captures"`
	Restarts  int        `json:"restarts"`
	LastError string     `json:"last_error,omitempty"`
	Since     *time.Time `json:"since,omitempty"`
}
