// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package models

import "time"

// Location values reported for private and loopback sources.
const (
	PrivateNetworkCountry = "Private Network"
	PrivateNetworkCity    = "Local Network"
	PrivateNetworkRegion  = "Private"
)

// LocationRecord is a geolocation result for one address. Records are
// replaced wholesale on refresh and never mutated after creation.
type LocationRecord struct {
	Country     string    `json:"country"`
	CountryCode string    `json:"country_code,omitempty"`
	City        string    `json:"city"`
	Region      string    `json:"region"`
	Timezone    string    `json:"timezone"`
	ISP         string    `json:"isp"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ResolvedAt  time.Time `json:"resolved_at"`
}

// PrivateNetworkRecord is returned for RFC1918, loopback and link-local sources.
func PrivateNetworkRecord() LocationRecord {
	return LocationRecord{
		Country:    PrivateNetworkCountry,
		City:       PrivateNetworkCity,
		Region:     PrivateNetworkRegion,
		Timezone:   "UTC",
		ISP:        PrivateNetworkCountry,
		ResolvedAt: time.Now().UTC(),
	}
}

// UnknownRecord is the fallback when a lookup fails.
func UnknownRecord() LocationRecord {
	return LocationRecord{
		Country:    UnknownValue,
		City:       UnknownValue,
		Region:     UnknownValue,
		Timezone:   "UTC",
		ISP:        UnknownValue,
		ResolvedAt: time.Now().UTC(),
	}
}

// IsUnknown reports whether the record is a lookup fallback.
//
//nolint:gocritic // LocationRecord is a small value type
func (r LocationRecord) IsUnknown() bool {
	return r.Country == UnknownValue && r.Latitude == 0 && r.Longitude == 0
}
