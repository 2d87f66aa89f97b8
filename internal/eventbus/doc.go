// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

/*
Package eventbus mirrors persisted attack events to NATS.

The mirror is an in-process subscriber of the live feed hub: every
new_attack message the hub broadcasts is re-published as JSON on a single
NATS subject (honeypot.attacks by default). Downstream consumers such as
SIEM forwarders or archivers can subscribe to that subject without touching
the HTTP API.

Build tags:

	go build -tags nats ./...

Without the nats tag the package still compiles: the Mirror and its tests
are tag independent, and NewComponents returns ErrNATSNotEnabled.

Components:

  - Mirror: hub subscriber that forwards attacks to an AttackPublisher
  - Publisher: watermill-nats publisher guarded by a circuit breaker
  - EmbeddedServer: optional in-process nats-server with JetStream storage
  - Components: lifecycle glue used by the supervisor tree

Message format:

	subject:  honeypot.attacks
	payload:  AttackEvent JSON including risk_level
	metadata: attack_id, risk_level, protocol, Nats-Msg-Id

Delivery is best effort. A failed publish is logged and counted in
nats_publish_failures_total; it never blocks ingestion or the live feed.
*/
package eventbus
