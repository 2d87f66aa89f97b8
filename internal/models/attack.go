// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package models

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/RayaneAll/honeypot-attack-map/internal/validation"
)

// Query bounds shared by the event store and the HTTP layer.
const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// ProtocolTCP is the protocol label recorded for raw TCP captures.
const ProtocolTCP = "TCP"

// UnknownValue is stored in location fields that could not be resolved.
const UnknownValue = "Unknown"

// AttackEvent is one persisted connection attempt.
//
// ID is zero until the event store assigns it. Timestamp is the moment the
// connection was accepted, in UTC, and never changes afterwards.
type AttackEvent struct {
	ID        int64     `json:"id"`
	IPAddress string    `json:"ip_address" validate:"required,ip"`
	Port      int       `json:"port" validate:"port"`
	Protocol  string    `json:"protocol" validate:"required,max=16"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Region    string    `json:"region"`
	Timezone  string    `json:"timezone"`
	ISP       string    `json:"isp"`
	Latitude  float64   `json:"latitude" validate:"latitude"`
	Longitude float64   `json:"longitude" validate:"longitude"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// RiskLevel returns the risk classification of the destination port.
func (e *AttackEvent) RiskLevel() RiskLevel {
	return ClassifyRisk(e.Port)
}

// Validate checks the network facts of the event before it is persisted.
func (e *AttackEvent) Validate() error {
	if err := validation.ValidateStruct(e); err != nil {
		return err
	}
	return nil
}

// MarshalJSON adds the derived risk_level field to the encoded event.
//
//nolint:gocritic // value receiver so both AttackEvent and *AttackEvent encode with risk_level
func (e AttackEvent) MarshalJSON() ([]byte, error) {
	type attackEventJSON AttackEvent
	return json.Marshal(struct {
		attackEventJSON
		RiskLevel RiskLevel `json:"risk_level"`
	}{
		attackEventJSON: attackEventJSON(e),
		RiskLevel:       ClassifyRisk(e.Port),
	})
}

// NewAttackEvent builds an unpersisted event from a capture and its resolved
// location. The capture time is kept as the event timestamp.
//
//nolint:gocritic // LocationRecord is a small value type
func NewAttackEvent(c Capture, loc LocationRecord) *AttackEvent {
	protocol := c.Protocol
	if protocol == "" {
		protocol = ProtocolTCP
	}
	return &AttackEvent{
		IPAddress: c.SourceIP,
		Port:      c.DestPort,
		Protocol:  protocol,
		Country:   loc.Country,
		City:      loc.City,
		Region:    loc.Region,
		Timezone:  loc.Timezone,
		ISP:       loc.ISP,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Timestamp: c.CapturedAt.UTC(),
	}
}

// Capture is the raw unit a port listener hands to the ingestion pipeline.
type Capture struct {
	SourceIP   string
	DestPort   int
	Protocol   string
	CapturedAt time.Time
}

// AttackFilter selects events from the store. Zero values disable a filter.
type AttackFilter struct {
	Country   string
	Protocol  string
	Port      int
	RiskLevel RiskLevel
	Since     *time.Time
	Limit     int
	Offset    int
}

// NormalizedLimit clamps Limit to [1, MaxQueryLimit], using DefaultQueryLimit
// when no limit was given.
func (f *AttackFilter) NormalizedLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultQueryLimit
	case f.Limit > MaxQueryLimit:
		return MaxQueryLimit
	default:
		return f.Limit
	}
}

// NormalizedOffset returns Offset, or zero when it is negative.
func (f *AttackFilter) NormalizedOffset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}
