// Package dataset loads observation tables and writes flagged datasets.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/qcflags/internal/fsutil"
	"github.com/banshee-data/qcflags/internal/qc"
)

// timeLayouts are tried in order before a cell is read as unix seconds.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
	"20060102T150405Z07:00",
	"20060102",
}

// ParseTime accepts RFC3339-style strings, compact dates such as 20240101,
// or unix seconds (fractional seconds allowed). Layouts win over numbers, so
// an eight digit cell is a date. Times without a zone are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return time.Time{}, fmt.Errorf("invalid unix time %q", s)
		}
		whole, frac := math.Modf(secs)
		return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

// ParseValue parses a numeric cell. Empty cells and the usual missing-value
// spellings become NaN.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na", "null", "none":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func isTimeHeader(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "time", "timestamp", "datetime":
		return true
	}
	return false
}

// LoadCSV reads a table whose first column is the timestamp. Every other
// column becomes a value column named by its header.
func LoadCSV(r io.Reader) (*qc.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty CSV", qc.ErrMalformedTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", qc.ErrMalformedTable, err)
	}
	if len(header) < 2 || !isTimeHeader(header[0]) {
		return nil, fmt.Errorf("%w: first column must be time and at least one value column is required, got %v",
			qc.ErrMalformedTable, header)
	}

	table := &qc.Table{Columns: make([]qc.Column, len(header)-1)}
	for i, name := range header[1:] {
		table.Columns[i].Name = strings.TrimSpace(name)
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", qc.ErrMalformedTable, line, err)
		}
		ts, err := ParseTime(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", qc.ErrMalformedTable, line, err)
		}
		table.Times = append(table.Times, ts)
		for i, cell := range rec[1:] {
			v, err := ParseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", qc.ErrMalformedTable, line, table.Columns[i].Name, err)
			}
			table.Columns[i].Values = append(table.Columns[i].Values, v)
		}
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadCSVFile opens path through fsys and reads it with LoadCSV.
func LoadCSVFile(fsys fsutil.FileSystem, path string) (*qc.Table, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	table, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// WriteCSV writes the source columns followed by one integer flag column
// per merged result. Missing values are written as empty cells.
func WriteCSV(w io.Writer, ds *qc.AugmentedDataset) error {
	cw := csv.NewWriter(w)

	header := []string{"time"}
	for _, c := range ds.Table.Columns {
		header = append(header, c.Name)
	}
	for _, fc := range ds.FlagColumns {
		header = append(header, fc.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, ts := range ds.Table.Times {
		row = row[:0]
		row = append(row, ts.UTC().Format(time.RFC3339Nano))
		for _, c := range ds.Table.Columns {
			if c.Missing(i) {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(c.Values[i], 'g', -1, 64))
		}
		for _, fc := range ds.FlagColumns {
			row = append(row, strconv.Itoa(int(fc.Flags[i])))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
