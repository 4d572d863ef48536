package qc

import (
	"fmt"
	"math"
	"time"
)

// Column is one named numeric column. NaN marks a missing cell.
type Column struct {
	Name   string
	Values []float64
}

// Table is the tabular input: a shared time column plus one value column
// per stream.
type Table struct {
	Times   []time.Time
	Columns []Column
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Times)
}

// Validate rejects tables whose shape cannot be trusted: ragged or
// unnamed columns, duplicate names, and timestamps that go backwards.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrMalformedTable)
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: unnamed column", ErrMalformedTable)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: column %q appears twice", ErrMalformedTable, c.Name)
		}
		seen[c.Name] = true
		if len(c.Values) != len(t.Times) {
			return fmt.Errorf("%w: column %q has %d rows, time column has %d",
				ErrMalformedTable, c.Name, len(c.Values), len(t.Times))
		}
	}
	for i := 1; i < len(t.Times); i++ {
		if t.Times[i].Before(t.Times[i-1]) {
			return fmt.Errorf("%w: timestamp at row %d precedes row %d", ErrMalformedTable, i, i-1)
		}
	}
	return nil
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	if t == nil {
		return Column{}, false
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Stream builds a stream from one value column.
func (t *Table) Stream(name string) (Stream, error) {
	c, ok := t.Column(name)
	if !ok {
		return Stream{}, fmt.Errorf("%w: %q", ErrUnknownStream, name)
	}
	return NewStream(name, t.Times, c.Values)
}

// Streams builds one stream per value column, keyed by column name.
func (t *Table) Streams() (map[string]Stream, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	out := make(map[string]Stream, len(t.Columns))
	for _, c := range t.Columns {
		s, err := NewStream(c.Name, t.Times, c.Values)
		if err != nil {
			return nil, err
		}
		out[c.Name] = s
	}
	return out, nil
}

// Missing reports whether the cell at row i of column c is missing.
func (c Column) Missing(i int) bool {
	return math.IsNaN(c.Values[i])
}
