// Package table loads local CSV files into typed, column-oriented in-memory
// tables and provides the normalization and date-filtering rules for the
// logistics datasets.
package table

import (
	"time"

	"github.com/google/uuid"
)

// Type is the inferred semantic type of a column.
type Type int

const (
	TypeString Type = iota
	TypeNumeric
	TypeTimestamp
)

// String returns the schema label reported by the API.
func (t Type) String() string {
	switch t {
	case TypeNumeric:
		return "numeric"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "string"
	}
}

// Column holds one named series of values. Exactly one of Strs, Nums or
// Times is populated, selected by Type. Valid marks cell presence: a false
// entry is the missing marker (empty CSV cell or failed coercion).
type Column struct {
	Name  string
	Type  Type
	Strs  []string
	Nums  []float64
	Times []time.Time
	Valid []bool
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Valid) }

// Value returns the cell at row i as a scalar, or nil when missing.
func (c *Column) Value(i int) any {
	if !c.Valid[i] {
		return nil
	}
	switch c.Type {
	case TypeNumeric:
		return c.Nums[i]
	case TypeTimestamp:
		return c.Times[i]
	default:
		return c.Strs[i]
	}
}

// Time returns the cell at row i as a timestamp. For string columns the raw
// value is parsed on the fly. The second return is false when the cell is
// missing or does not parse.
func (c *Column) Time(i int) (time.Time, bool) {
	if !c.Valid[i] {
		return time.Time{}, false
	}
	switch c.Type {
	case TypeTimestamp:
		return c.Times[i], true
	case TypeString:
		return parseTime(c.Strs[i])
	default:
		return time.Time{}, false
	}
}

// slice returns a new column containing the cells at idx, in order.
func (c *Column) slice(idx []int) *Column {
	out := &Column{Name: c.Name, Type: c.Type, Valid: make([]bool, len(idx))}
	switch c.Type {
	case TypeNumeric:
		out.Nums = make([]float64, len(idx))
	case TypeTimestamp:
		out.Times = make([]time.Time, len(idx))
	default:
		out.Strs = make([]string, len(idx))
	}
	for j, i := range idx {
		out.Valid[j] = c.Valid[i]
		switch c.Type {
		case TypeNumeric:
			out.Nums[j] = c.Nums[i]
		case TypeTimestamp:
			out.Times[j] = c.Times[i]
		default:
			out.Strs[j] = c.Strs[i]
		}
	}
	return out
}

// Table is the normalized in-memory representation of one CSV file.
// Its column set and row count are fixed once loaded.
type Table struct {
	Name     string
	LoadID   uuid.UUID
	LoadedAt time.Time
	Columns  []*Column
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Column returns the named column, if present.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Select returns a new Table containing the rows at idx, in order.
// Load metadata is carried over unchanged.
func (t *Table) Select(idx []int) *Table {
	out := &Table{
		Name:     t.Name,
		LoadID:   t.LoadID,
		LoadedAt: t.LoadedAt,
		Columns:  make([]*Column, len(t.Columns)),
	}
	for i, c := range t.Columns {
		out.Columns[i] = c.slice(idx)
	}
	return out
}

// Schema maps each column name to its inferred type label.
func (t *Table) Schema() map[string]string {
	out := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		out[c.Name] = c.Type.String()
	}
	return out
}
