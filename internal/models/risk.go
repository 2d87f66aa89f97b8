// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package models

import "sort"

// RiskLevel is a display severity derived from the destination port.
type RiskLevel string

// Risk levels, lowest first.
const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Port sets are checked from critical down; a port appears in one set only.
var (
	criticalPorts = map[int]struct{}{
		22: {}, 3389: {}, 5432: {}, 3306: {}, 1433: {}, 1521: {}, 6379: {}, 27017: {},
	}
	highPorts = map[int]struct{}{
		21: {}, 23: {}, 25: {}, 53: {}, 80: {}, 443: {}, 993: {}, 995: {}, 8080: {}, 8443: {},
	}
	mediumPorts = map[int]struct{}{
		110: {}, 135: {}, 139: {}, 143: {}, 445: {}, 5900: {},
	}
)

// ClassifyRisk maps a destination port to its risk level.
func ClassifyRisk(port int) RiskLevel {
	if _, ok := criticalPorts[port]; ok {
		return RiskCritical
	}
	if _, ok := highPorts[port]; ok {
		return RiskHigh
	}
	if _, ok := mediumPorts[port]; ok {
		return RiskMedium
	}
	return RiskLow
}

// ParseRiskLevel returns the level named by s and whether it is known.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return RiskLevel(s), true
	default:
		return "", false
	}
}

// RiskPorts returns the sorted port set behind level. LOW has no set of its
// own: it is every port outside the classified sets, so the classified ports
// are returned with exclude set.
func RiskPorts(level RiskLevel) (ports []int, exclude bool) {
	switch level {
	case RiskCritical:
		return sortedPorts(criticalPorts), false
	case RiskHigh:
		return sortedPorts(highPorts), false
	case RiskMedium:
		return sortedPorts(mediumPorts), false
	case RiskLow:
		return sortedPorts(criticalPorts, highPorts, mediumPorts), true
	default:
		return nil, false
	}
}

func sortedPorts(sets ...map[int]struct{}) []int {
	var out []int
	for _, set := range sets {
		for p := range set {
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}
