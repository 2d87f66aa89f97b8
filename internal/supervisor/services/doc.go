// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

/*
Package services provides suture.Service wrappers for the honeypot's
long-running components.

Each wrapper translates a component lifecycle (ListenAndServe,
Start/Shutdown, a ticker loop) into suture's Serve(ctx) pattern and names
itself through fmt.Stringer for the supervisor logs.

# Available Services

HTTPServerService wraps *http.Server. Cancellation triggers Shutdown with
a fresh bounded context; a bind failure is returned so suture retries.

WebSocketHubService wraps websocket.Hub, which closes every subscriber
when its context ends.

RetentionService purges attack events older than retention.max_age and
expired geolocation entries, once on start and then every
retention.interval. Failures are logged and counted in
retention_runs_total{result="error"}.

NATSMirrorService wraps eventbus.Components. If the hub drops a mirror that
fell behind, Serve returns ErrMirrorStopped and suture starts a fresh one.

# Interfaces

The wrappers depend on small interfaces rather than concrete types:

	HTTPServer      *http.Server
	ContextHub      *websocket.Hub
	AttackPurger    *database.DB
	GeoCachePurger  *geoip.Resolver
	MirrorRunner    *eventbus.Components
*/
package services
