// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package models

// Column describes one column of an event table.
type Column struct {
	Name string

	// SQLType is the PostgreSQL column type, e.g. "text" or "bigint".
	SQLType string

	// Nullable columns accept NULL; others are created NOT NULL.
	Nullable bool

	// Index requests a btree index on the column.
	Index bool
}

// TableSpec describes a table created from code rather than from a
// hand-written migration.
type TableSpec struct {
	Name    string
	Columns []Column

	// Checks are raw CHECK constraint expressions.
	Checks []string
}

// Column returns the named column and whether it exists.
func (t TableSpec) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Field is a named column value.
type Field struct {
	Name  string
	Value interface{}
}

// Fields is an ordered list of column values.
type Fields []Field

// Names returns the column names in order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

// Values returns the column values in order.
func (f Fields) Values() []interface{} {
	values := make([]interface{}, len(f))
	for i, field := range f {
		values[i] = field.Value
	}
	return values
}

// Get returns the value of the named field.
func (f Fields) Get(name string) (interface{}, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Row is a row destined for Table.
type Row struct {
	Table  string
	Fields Fields
}
