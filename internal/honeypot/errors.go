// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package honeypot

import "errors"

var (
	// ErrNoListeners is returned by Start when no port could be bound.
	ErrNoListeners = errors.New("no honeypot port could be bound")

	// ErrAlreadyStarted is returned by a second Start call.
	ErrAlreadyStarted = errors.New("honeypot supervisor already started")
)
