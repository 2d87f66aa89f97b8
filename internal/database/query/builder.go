// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

// Package query builds parameterized SQL WHERE clauses for the database package.
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("country", filter.Country)
//	wb.AddSince("timestamp", filter.Since)
//	whereClause, args := wb.BuildWithPrefix()
//	// WHERE country = ? AND timestamp >= ?
//
// Column names are always supplied by the caller as literals; only values
// are bound as arguments.
package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?" unless value is empty.
func (wb *WhereBuilder) AddEquals(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause(column+" = ?", value)
}

// AddEqualsFold adds "upper(column) = ?" unless value is empty.
func (wb *WhereBuilder) AddEqualsFold(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause("upper("+column+") = ?", strings.ToUpper(value))
}

// AddEqualsInt adds "column = ?" unless value is zero.
func (wb *WhereBuilder) AddEqualsInt(column string, value int) *WhereBuilder {
	if value == 0 {
		return wb
	}
	return wb.AddClause(column+" = ?", value)
}

// AddSince adds "column >= ?" unless since is nil.
func (wb *WhereBuilder) AddSince(column string, since *time.Time) *WhereBuilder {
	if since == nil {
		return wb
	}
	return wb.AddClause(column+" >= ?", since.UTC())
}

// AddBefore adds "column < ?".
func (wb *WhereBuilder) AddBefore(column string, before time.Time) *WhereBuilder {
	return wb.AddClause(column+" < ?", before.UTC())
}

// AddIn adds "column IN (?, ...)" unless values is empty.
func (wb *WhereBuilder) AddIn(column string, values []int) *WhereBuilder {
	return wb.addSet(column, "IN", values)
}

// AddNotIn adds "column NOT IN (?, ...)" unless values is empty.
func (wb *WhereBuilder) AddNotIn(column string, values []int) *WhereBuilder {
	return wb.addSet(column, "NOT IN", values)
}

func (wb *WhereBuilder) addSet(column, op string, values []int) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s %s (%s)", column, op, strings.Join(placeholders, ", ")))
	return wb
}

// Build returns the conditions joined with AND, or "1=1" when empty.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause with a "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}
