// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/api"
	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/database"
	"github.com/RayaneAll/honeypot-attack-map/internal/geoip"
	"github.com/RayaneAll/honeypot-attack-map/internal/honeypot"
	"github.com/RayaneAll/honeypot-attack-map/internal/ingest"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
	"github.com/RayaneAll/honeypot-attack-map/internal/supervisor"
	"github.com/RayaneAll/honeypot-attack-map/internal/supervisor/services"
	ws "github.com/RayaneAll/honeypot-attack-map/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.SetAppInfo(version)

	logging.Info().
		Str("version", version).
		Ints("ports", cfg.Honeypot.Ports).
		Str("db_path", cfg.Database.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting honeypot attack map with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	provider := geoip.NewBreakerProvider(geoip.NewIPAPIProvider(cfg.GeoIP.URL, cfg.GeoIP.Timeout))
	resolver := geoip.NewResolver(provider, geoip.Config{
		MinInterval: cfg.GeoIP.MinInterval,
		Timeout:     cfg.GeoIP.Timeout,
		CacheTTL:    cfg.GeoIP.CacheTTL,
		CacheSize:   cfg.GeoIP.CacheSize,
	})

	// The hub is the live feed: every persisted attack is broadcast to
	// browser sessions and, when enabled, the NATS mirror.
	wsHub := ws.NewHub()

	pipeline, err := ingest.New(resolver, db, wsHub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create ingest pipeline")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridges zerolog to slog for sutureslog
	slogLogger := logging.NewSlogLogger()

	treeCfg := supervisor.DefaultTreeConfig()
	tree, err := supervisor.NewSupervisorTree(slogLogger, treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Bind honeypot ports before anything is served. A port that cannot be
	// bound is reported through /api/listeners; losing every port is fatal.
	listeners := honeypot.NewSupervisor(cfg.Honeypot, pipeline)
	if err := listeners.Start(ctx, cfg.Honeypot.Ports); err != nil {
		cancel()
		logging.Fatal().Err(err).Msg("Failed to start honeypot listeners")
	}

	natsComponents, err := initNATS(cfg, wsHub)
	if err != nil {
		listeners.Stop()
		cancel()
		logging.Fatal().Err(err).Msg("Failed to initialize NATS mirror")
	}

	handler := api.NewHandler(cfg, api.Dependencies{
		Store:     db,
		GeoCache:  resolver,
		Listeners: listeners,
		Hub:       wsHub,
		Version:   version,
	})
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer
	if cfg.Retention.Enabled {
		tree.AddDataService(services.NewRetentionService(db, resolver, cfg.Retention))
		logging.Info().
			Dur("max_age", cfg.Retention.MaxAge).
			Dur("interval", cfg.Retention.Interval).
			Msg("Retention service added to supervisor tree")
	}

	// Messaging layer
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	addNATSToSupervisor(tree, natsComponents, treeCfg.ShutdownTimeout)

	// Capture layer
	tree.AddCaptureService(listeners)

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, treeCfg.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Covers the case where the tree exited before the capture layer ran.
	listeners.Stop()

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
