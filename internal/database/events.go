// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/RayaneAll/honeypot-attack-map/internal/database/query"
	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

const attackColumns = `id, ip_address, port, protocol, country, city, region, timezone, isp, latitude, longitude, timestamp`

// AppendAttack persists event and returns its new id. The id is also
// written back to event.ID. The insert is a single atomic statement.
func (db *DB) AppendAttack(ctx context.Context, event *models.AttackEvent) (int64, error) {
	if event == nil {
		return 0, fmt.Errorf("attack event is nil")
	}
	if err := event.Validate(); err != nil {
		return 0, fmt.Errorf("invalid attack event: %w", err)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	start := time.Now()
	var id int64
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO attack_events (ip_address, port, protocol, country, city, region, timezone, isp, latitude, longitude, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		event.IPAddress, event.Port, event.Protocol,
		event.Country, event.City, event.Region, event.Timezone, event.ISP,
		event.Latitude, event.Longitude, event.Timestamp.UTC(),
	).Scan(&id)
	metrics.RecordDBQuery("insert", "attack_events", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert attack event: %w", err)
	}

	event.ID = id
	return id, nil
}

// buildAttackFilter turns filter into a WHERE clause.
func buildAttackFilter(filter models.AttackFilter) (string, []interface{}) {
	wb := query.NewWhereBuilder().
		AddEquals("country", filter.Country).
		AddEqualsFold("protocol", filter.Protocol).
		AddEqualsInt("port", filter.Port).
		AddSince("timestamp", filter.Since)
	if ports, exclude := models.RiskPorts(filter.RiskLevel); exclude {
		wb.AddNotIn("port", ports)
	} else {
		wb.AddIn("port", ports)
	}
	return wb.BuildWithPrefix()
}

// QueryAttacks returns events matching filter, newest first. Ties on
// timestamp are broken by id, newest first. The limit is clamped to
// [1, MaxQueryLimit] with DefaultQueryLimit for non-positive values.
func (db *DB) QueryAttacks(ctx context.Context, filter models.AttackFilter) ([]models.AttackEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	whereClause, args := buildAttackFilter(filter)
	args = append(args, filter.NormalizedLimit(), filter.NormalizedOffset())

	q := fmt.Sprintf(`SELECT %s FROM attack_events %s ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?`,
		attackColumns, whereClause)

	start := time.Now()
	events, err := queryAndScan(ctx, db.conn, q, args, scanAttack)
	metrics.RecordDBQuery("select", "attack_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query attack events: %w", err)
	}
	if events == nil {
		events = []models.AttackEvent{}
	}
	return events, nil
}

// CountAttacks returns the number of events matching filter, ignoring
// limit and offset.
func (db *DB) CountAttacks(ctx context.Context, filter models.AttackFilter) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	whereClause, args := buildAttackFilter(filter)

	start := time.Now()
	var total int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM attack_events "+whereClause, args...).Scan(&total)
	metrics.RecordDBQuery("count", "attack_events", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count attack events: %w", err)
	}
	return total, nil
}

// GetAttackByID returns one event or ErrNotFound.
func (db *DB) GetAttackByID(ctx context.Context, id int64) (*models.AttackEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, "SELECT "+attackColumns+" FROM attack_events WHERE id = ?", id)
	event, err := scanAttack(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "attack_events", time.Since(start), nil)
		return nil, fmt.Errorf("attack %d: %w", id, ErrNotFound)
	}
	metrics.RecordDBQuery("select", "attack_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get attack event %d: %w", id, err)
	}
	return &event, nil
}

// DeleteAttack removes one event or returns ErrNotFound.
func (db *DB) DeleteAttack(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, "DELETE FROM attack_events WHERE id = ?", id)
	metrics.RecordDBQuery("delete", "attack_events", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete attack event %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("attack %d: %w", id, ErrNotFound)
	}
	return nil
}

// PurgeAttacksOlderThan removes every event with a timestamp before cutoff
// and returns the number removed.
func (db *DB) PurgeAttacksOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	whereClause, args := query.NewWhereBuilder().AddBefore("timestamp", cutoff).BuildWithPrefix()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, "DELETE FROM attack_events "+whereClause, args...)
	metrics.RecordDBQuery("purge", "attack_events", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to purge attack events: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return deleted, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAttack(row rowScanner) (models.AttackEvent, error) {
	var e models.AttackEvent
	err := row.Scan(
		&e.ID, &e.IPAddress, &e.Port, &e.Protocol,
		&e.Country, &e.City, &e.Region, &e.Timezone, &e.ISP,
		&e.Latitude, &e.Longitude, &e.Timestamp,
	)
	if err != nil {
		return models.AttackEvent{}, err
	}
	e.Timestamp = e.Timestamp.UTC()
	return e, nil
}
