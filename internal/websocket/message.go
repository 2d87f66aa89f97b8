// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package websocket

import (
	"github.com/goccy/go-json"
)

// Message types for WebSocket communication
const (
	MessageTypeNewAttack = "new_attack"
	MessageTypeConnected = "connected"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
)

// Message is one frame on the live feed.
type Message struct {
	Type string      `json:"type"`
	Seq  uint64      `json:"seq,omitempty"`
	Data interface{} `json:"data"`
}

// ConnectedData is the payload of the greeting sent to new clients.
type ConnectedData struct {
	ClientID uint64 `json:"client_id"`
	Message  string `json:"message"`
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
