// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

/*
Package supervisor provides process supervision using suture v4.

Every long-running part of the honeypot runs as a suture.Service inside a
layered tree, with automatic restart, failure isolation and graceful
shutdown driven by context cancellation.

# Overview

	RootSupervisor ("honeypot-attack-map")
	├── DataSupervisor ("data-layer")
	│   └── RetentionService (if RETENTION_ENABLED)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── NATSMirrorService (if NATS_ENABLED, build tag: nats)
	├── CaptureSupervisor ("capture-layer")
	│   └── honeypot.Supervisor (port listeners, itself a suture tree)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the NATS mirror restarts the mirror only; listeners keep
accepting connections and the dashboard keeps serving.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewRetentionService(db, resolver, cfg.Retention))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddCaptureService(listeners)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Failure Handling

Each layer counts failures with exponential decay (FailureDecay seconds).
When the count exceeds FailureThreshold the layer waits FailureBackoff
before restarting. A service that returns suture.ErrDoNotRestart is not
restarted.

# What Is NOT Supervised

DuckDB is an embedded library, not a service; its connection pool lives in
the database package and is closed by main after the tree stops.

# Debugging Shutdown Issues

	report, _ := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logging.Warn().Str("service", svc.Name).Msg("service did not stop")
	}
*/
package supervisor
