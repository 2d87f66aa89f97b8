// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

const defaultTopN = 5

// GetAttackSummary returns totals, recent-window counts and the topN
// countries, ports and protocols, all computed relative to now.
func (db *DB) GetAttackSummary(ctx context.Context, now time.Time, topN int) (*models.AttackSummary, error) {
	if topN <= 0 {
		topN = defaultTopN
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	now = now.UTC()
	summary := &models.AttackSummary{GeneratedAt: now}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE timestamp >= ?),
			COUNT(*) FILTER (WHERE timestamp >= ?),
			COUNT(DISTINCT country),
			COUNT(DISTINCT ip_address)
		FROM attack_events`,
		now.Add(-24*time.Hour), now.Add(-time.Hour),
	).Scan(&summary.Total, &summary.Last24Hours, &summary.LastHour, &summary.UniqueCountries, &summary.UniqueIPs)
	metrics.RecordDBQuery("summary", "attack_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to compute attack totals: %w", err)
	}

	if summary.TopCountries, err = db.GetAttacksByCountry(ctx, topN); err != nil {
		return nil, err
	}
	if summary.TopPorts, err = db.GetAttacksByPort(ctx, topN); err != nil {
		return nil, err
	}
	if summary.TopProtocols, err = db.getAttacksByProtocol(ctx, topN); err != nil {
		return nil, err
	}
	return summary, nil
}

// GetAttacksByCountry returns attack and distinct source counts per
// country, busiest first.
func (db *DB) GetAttacksByCountry(ctx context.Context, limit int) ([]models.CountryStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	stats, err := queryAndScan(ctx, db.conn, `
		SELECT country, COUNT(*) AS attacks, COUNT(DISTINCT ip_address) AS unique_ips
		FROM attack_events
		GROUP BY country
		ORDER BY attacks DESC, country ASC
		LIMIT ?`,
		[]interface{}{clampLimit(limit)},
		func(row rowScanner) (models.CountryStats, error) {
			var s models.CountryStats
			err := row.Scan(&s.Country, &s.Count, &s.UniqueIPs)
			return s, err
		})
	metrics.RecordDBQuery("by_country", "attack_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attacks by country: %w", err)
	}
	if stats == nil {
		stats = []models.CountryStats{}
	}
	return stats, nil
}

// GetAttacksByPort returns attack and distinct source counts per port,
// busiest first, with the risk level of each port.
func (db *DB) GetAttacksByPort(ctx context.Context, limit int) ([]models.PortStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	stats, err := queryAndScan(ctx, db.conn, `
		SELECT port, COUNT(*) AS attacks, COUNT(DISTINCT ip_address) AS unique_ips
		FROM attack_events
		GROUP BY port
		ORDER BY attacks DESC, port ASC
		LIMIT ?`,
		[]interface{}{clampLimit(limit)},
		func(row rowScanner) (models.PortStats, error) {
			var s models.PortStats
			if err := row.Scan(&s.Port, &s.Count, &s.UniqueIPs); err != nil {
				return s, err
			}
			s.RiskLevel = models.ClassifyRisk(s.Port)
			return s, nil
		})
	metrics.RecordDBQuery("by_port", "attack_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attacks by port: %w", err)
	}
	if stats == nil {
		stats = []models.PortStats{}
	}
	return stats, nil
}

func (db *DB) getAttacksByProtocol(ctx context.Context, limit int) ([]models.ProtocolStats, error) {
	start := time.Now()
	stats, err := queryAndScan(ctx, db.conn, `
		SELECT protocol, COUNT(*) AS attacks
		FROM attack_events
		GROUP BY protocol
		ORDER BY attacks DESC, protocol ASC
		LIMIT ?`,
		[]interface{}{clampLimit(limit)},
		func(row rowScanner) (models.ProtocolStats, error) {
			var s models.ProtocolStats
			err := row.Scan(&s.Protocol, &s.Count)
			return s, err
		})
	metrics.RecordDBQuery("by_protocol", "attack_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attacks by protocol: %w", err)
	}
	if stats == nil {
		stats = []models.ProtocolStats{}
	}
	return stats, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return models.DefaultQueryLimit
	case limit > models.MaxQueryLimit:
		return models.MaxQueryLimit
	default:
		return limit
	}
}
