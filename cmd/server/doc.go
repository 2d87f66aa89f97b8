// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

/*
Package main is the entry point for the honeypot attack map server.

The server listens on a set of decoy TCP ports, records every inbound
connection as an attack event, geolocates the source address, stores the
event in DuckDB and broadcasts it to live map sessions over WebSocket.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("honeypot-attack-map")
	├── DataSupervisor ("data-layer")
	│   └── Retention service (RETENTION_ENABLED)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (live feed)
	│   └── NATS mirror (optional, -tags nats)
	├── CaptureSupervisor ("capture-layer")
	│   └── Honeypot listeners (one supervised service per port)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST API, /ws, /metrics)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB attack store
 4. Geolocation: ip-api provider behind a circuit breaker, cached resolver
 5. WebSocket Hub and ingest pipeline
 6. Honeypot listeners: ports are bound before the tree starts
 7. NATS mirror (optional)
 8. Supervisor Tree and HTTP server

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Honeypot
	HONEYPOT_PORTS=22,23,80,443,3389,5432,3306
	HONEYPOT_HOST=0.0.0.0
	HONEYPOT_READ_TIMEOUT=5s
	HONEYPOT_BANNERS=true

	# Geolocation
	GEOIP_URL=http://ip-api.com/json
	GEOIP_MIN_INTERVAL=100ms
	GEOIP_CACHE_TTL=24h

	# Storage
	DUCKDB_PATH=./data/honeypot.duckdb
	RETENTION_ENABLED=true
	RETENTION_MAX_AGE=720h

	# HTTP
	HTTP_PORT=8000
	CORS_ORIGINS=*
	LOG_LEVEL=info
	LOG_FORMAT=json

	# NATS mirror (requires -tags nats)
	NATS_ENABLED=false
	NATS_URL=nats://127.0.0.1:4222
	NATS_EMBEDDED=true
	NATS_SUBJECT=honeypot.attacks

A config.yaml is read from CONFIG_PATH or the default search paths.

# Build Tags

	go build ./cmd/server               # Core server
	go build -tags nats ./cmd/server    # With the NATS attack mirror

# Signal Handling

SIGINT and SIGTERM cancel the root context and the tree stops every
layer. The HTTP server drains requests, the listeners close their sockets
and join in-flight connections, and the mirror flushes queued attacks.
The database is closed once the tree has returned.

# Privileged Ports

Ports below 1024 need CAP_NET_BIND_SERVICE or root. A port that cannot be
bound is logged and reported by GET /api/v1/listeners; the server refuses to
start only when no port could be bound.
*/
package main
