// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

/*
Package websocket fans persisted attack events out to live subscribers.

The Hub holds a set of Subscribers keyed by a process-unique id. Every
broadcast takes a snapshot of the set, sorted by id, and sends to each
subscriber without holding the hub lock. A subscriber whose send fails is
unsubscribed and closed; the others are unaffected.

Two transports implement Subscriber:

  - Client: a gorilla/websocket connection with a read pump (ping/pong,
    client "ping" messages) and a write pump fed by a bounded send queue.
    A full queue counts as a failed send.
  - ChannelSubscriber: an in-process consumer reading messages from a Go
    channel, used by the NATS mirror and by tests.

Message Types:

  - connected: sent once to each new WebSocket client
  - new_attack: a persisted AttackEvent, with a per-hub sequence number
  - ping / pong: application level keepalive initiated by the client

Wire format:

	{"type":"new_attack","seq":42,"data":{"id":42,"ip_address":"203.0.113.9",...}}

Usage:

	hub := websocket.NewHub()
	// supervised: hub.RunWithContext(ctx) closes every subscriber on shutdown

	conn, _ := upgrader.Upgrade(w, r, nil)
	websocket.ServeClient(hub, conn)

	_ = hub.Publish(ctx, event)
*/
package websocket
