// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package database

import (
	"context"
	"fmt"
	"time"
)

// Ids come from a sequence so they stay monotonic and are never reused,
// even after deletes and purges.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS attack_events_id_seq START 1`,
	`CREATE TABLE IF NOT EXISTS attack_events (
		id BIGINT PRIMARY KEY DEFAULT nextval('attack_events_id_seq'),
		ip_address VARCHAR NOT NULL,
		port INTEGER NOT NULL,
		protocol VARCHAR NOT NULL DEFAULT 'TCP',
		country VARCHAR NOT NULL DEFAULT 'Unknown',
		city VARCHAR NOT NULL DEFAULT 'Unknown',
		region VARCHAR NOT NULL DEFAULT 'Unknown',
		timezone VARCHAR NOT NULL DEFAULT 'UTC',
		isp VARCHAR NOT NULL DEFAULT 'Unknown',
		latitude DOUBLE NOT NULL DEFAULT 0,
		longitude DOUBLE NOT NULL DEFAULT 0,
		timestamp TIMESTAMP NOT NULL
	)`,
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_attack_events_ip_address ON attack_events(ip_address)`,
	`CREATE INDEX IF NOT EXISTS idx_attack_events_timestamp ON attack_events(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_attack_events_country ON attack_events(country)`,
}

// initialize creates the sequence, table and indexes.
func (db *DB) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	for _, stmt := range indexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
