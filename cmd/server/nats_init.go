// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/eventbus"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/supervisor"
	"github.com/RayaneAll/honeypot-attack-map/internal/supervisor/services"
)

// initNATS builds the attack mirror when NATS_ENABLED is set.
//
// It returns nil, nil when the mirror is disabled or when the binary was
// built without -tags nats; the live feed and the store work either way.
func initNATS(cfg *config.Config, feed eventbus.Feed) (*eventbus.Components, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS mirror disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	components, err := eventbus.NewComponents(eventbus.FromAppConfig(cfg.NATS), feed)
	if errors.Is(err, eventbus.ErrNATSNotEnabled) {
		logging.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("init NATS mirror: %w", err)
	}

	logging.Info().
		Str("url", cfg.NATS.URL).
		Bool("embedded", cfg.NATS.EmbeddedServer).
		Str("subject", cfg.NATS.Subject).
		Msg("NATS mirror configured")
	return components, nil
}

// addNATSToSupervisor adds the mirror to the messaging layer. It is a
// no-op when components is nil.
func addNATSToSupervisor(tree *supervisor.SupervisorTree, components *eventbus.Components, shutdownTimeout time.Duration) {
	if components == nil {
		return
	}
	tree.AddMessagingService(services.NewNATSMirrorService(components, shutdownTimeout))
	logging.Info().Msg("NATS mirror added to supervisor tree (messaging layer)")
}
