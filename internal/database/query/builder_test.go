// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package query

import (
	"testing"
	"time"
)

func TestWhereBuilder_Empty(t *testing.T) {
	whereClause, args := NewWhereBuilder().Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_SkipsZeroValues(t *testing.T) {
	whereClause, args := NewWhereBuilder().
		AddEquals("country", "").
		AddEqualsFold("protocol", "").
		AddEqualsInt("port", 0).
		AddSince("timestamp", nil).
		AddIn("port", nil).
		AddNotIn("port", []int{}).
		Build()

	if whereClause != "1=1" || len(args) != 0 {
		t.Errorf("Expected zero values to be skipped, got %q %v", whereClause, args)
	}
}

func TestWhereBuilder_Combined(t *testing.T) {
	since := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))

	wb := NewWhereBuilder().
		AddEquals("country", "France").
		AddEqualsInt("port", 22).
		AddSince("timestamp", &since).
		AddEqualsFold("protocol", "ssh").
		AddIn("port", []int{22, 3389})

	whereClause, args := wb.BuildWithPrefix()
	expected := "WHERE country = ? AND port = ? AND timestamp >= ? AND upper(protocol) = ? AND port IN (?, ?)"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 6 {
		t.Fatalf("Expected 6 args, got %d", len(args))
	}
	if args[3] != "SSH" || args[4] != 22 || args[5] != 3389 {
		t.Errorf("Unexpected trailing args: %v", args[3:])
	}
	if args[0] != "France" || args[1] != 22 {
		t.Errorf("Unexpected leading args: %v", args[:2])
	}
	bound, ok := args[2].(time.Time)
	if !ok {
		t.Fatalf("Expected time.Time arg, got %T", args[2])
	}
	if bound.Location() != time.UTC || !bound.Equal(since) {
		t.Errorf("Expected since converted to UTC, got %v", bound)
	}
}

func TestWhereBuilder_AddBefore(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	whereClause, args := NewWhereBuilder().AddBefore("timestamp", cutoff).Build()

	if whereClause != "timestamp < ?" {
		t.Errorf("Expected 'timestamp < ?', got %q", whereClause)
	}
	if len(args) != 1 {
		t.Errorf("Expected 1 arg, got %d", len(args))
	}
}

func TestWhereBuilder_AddNotIn(t *testing.T) {
	whereClause, args := NewWhereBuilder().AddNotIn("port", []int{21, 23}).Build()

	if whereClause != "port NOT IN (?, ?)" {
		t.Errorf("Expected 'port NOT IN (?, ?)', got %q", whereClause)
	}
	if len(args) != 2 || args[0] != 21 || args[1] != 23 {
		t.Errorf("Unexpected args: %v", args)
	}
}
