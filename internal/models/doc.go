// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

/*
Package models defines the data structures shared by the honeypot pipeline,
the event store and the HTTP API.

Key Components:

  - AttackEvent: one persisted connection attempt with its location facts
  - Capture: the raw unit a port listener hands to the ingestion pipeline
  - LocationRecord: a geolocation result, including the Private Network and
    Unknown sentinels
  - RiskLevel: severity derived from the destination port
  - AttackFilter: store query filter with limit clamping
  - AttackSummary: aggregate statistics
  - APIResponse: the HTTP response envelope

Risk classification is a pure function of the port and is never stored:

	models.ClassifyRisk(22)   // CRITICAL
	models.ClassifyRisk(80)   // HIGH
	models.ClassifyRisk(143)  // MEDIUM
	models.ClassifyRisk(9999) // LOW

JSON encoding uses github.com/goccy/go-json. AttackEvent adds the derived
risk_level field when encoded.
*/
package models
