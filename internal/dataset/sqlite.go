package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/qcflags/internal/qc"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource describes an observation table inside a SQLite database.
type SQLiteSource struct {
	Table      string
	TimeColumn string   // defaults to "time"
	Columns    []string // defaults to every column except TimeColumn
}

// OpenSQLite opens a SQLite database file with the pure-Go driver.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return db, nil
}

// LoadSQLite reads src from db ordered by time.
func LoadSQLite(ctx context.Context, db *sql.DB, src SQLiteSource) (*qc.Table, error) {
	timeCol := src.TimeColumn
	if timeCol == "" {
		timeCol = "time"
	}
	for _, name := range append([]string{src.Table, timeCol}, src.Columns...) {
		if !identRe.MatchString(name) {
			return nil, fmt.Errorf("invalid identifier %q", name)
		}
	}

	cols := src.Columns
	if len(cols) == 0 {
		var err error
		if cols, err = valueColumns(ctx, db, src.Table, timeCol); err != nil {
			return nil, err
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: table %q has no value columns", qc.ErrMalformedTable, src.Table)
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s",
		timeCol, strings.Join(cols, ", "), src.Table, timeCol)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", src.Table, err)
	}
	defer rows.Close()

	table := &qc.Table{Columns: make([]qc.Column, len(cols))}
	for i, c := range cols {
		table.Columns[i].Name = c
	}

	dest := make([]any, len(cols)+1)
	ptrs := make([]any, len(dest))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	row := 0
	for rows.Next() {
		row++
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", row, err)
		}
		ts, err := timeFromSQL(dest[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", qc.ErrMalformedTable, row, err)
		}
		table.Times = append(table.Times, ts)
		for i := range cols {
			v, err := valueFromSQL(dest[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %v", qc.ErrMalformedTable, row, cols[i], err)
			}
			table.Columns[i].Values = append(table.Columns[i].Values, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Table, err)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func valueColumns(ctx context.Context, db *sql.DB, table, timeCol string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	found := false
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
		}
		if name == timeCol {
			found = true
			continue
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: table %q has no %q column", qc.ErrMalformedTable, table, timeCol)
	}
	return cols, nil
}

func timeFromSQL(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case int64:
		return time.Unix(x, 0).UTC(), nil
	case float64:
		return ParseTime(strconv.FormatFloat(x, 'f', -1, 64))
	case string:
		return ParseTime(x)
	case []byte:
		return ParseTime(string(x))
	case nil:
		return time.Time{}, fmt.Errorf("NULL timestamp")
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
}

func valueFromSQL(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), nil
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return ParseValue(x)
	case []byte:
		return ParseValue(string(x))
	}
	return 0, fmt.Errorf("unsupported value type %T", v)
}
