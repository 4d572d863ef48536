package dataset

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/qcflags/internal/fsutil"
	"github.com/banshee-data/qcflags/internal/qc"
)

const sampleCSV = `time,temp,salinity
2024-01-01T00:00:00Z,5,35
2024-01-01T00:01:00Z,12,
2024-01-01T00:02:00Z,60,NaN
`

func TestLoadCSV(t *testing.T) {
	table, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC), table.Times[1])

	temp, ok := table.Column("temp")
	require.True(t, ok)
	assert.Equal(t, []float64{5, 12, 60}, temp.Values)

	sal, ok := table.Column("salinity")
	require.True(t, ok)
	assert.Equal(t, 35.0, sal.Values[0])
	assert.True(t, math.IsNaN(sal.Values[1]))
	assert.True(t, math.IsNaN(sal.Values[2]))
}

func TestLoadCSV_UnixSeconds(t *testing.T) {
	table, err := LoadCSV(strings.NewReader("timestamp,x\n1700000000,1\n1700000000.5,2\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), table.Times[0])
	assert.Equal(t, 500*time.Millisecond, table.Times[1].Sub(table.Times[0]))
}

func TestLoadCSV_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no value column", "time\n2024-01-01T00:00:00Z\n"},
		{"no time column", "temp,salinity\n1,2\n"},
		{"ragged row", "time,temp\n2024-01-01T00:00:00Z,1,2\n"},
		{"bad number", "time,temp\n2024-01-01T00:00:00Z,warm\n"},
		{"bad time", "time,temp\nyesterday,1\n"},
		{"time goes backwards", "time,temp\n2024-01-02T00:00:00Z,1\n2024-01-01T00:00:00Z,1\n"},
		{"duplicate column", "time,temp,temp\n2024-01-01T00:00:00Z,1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.data))
			assert.ErrorIs(t, err, qc.ErrMalformedTable)
		})
	}
}

func TestLoadCSVFile(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("obs.csv", []byte(sampleCSV), 0o644))

	table, err := LoadCSVFile(fsys, "obs.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, err = LoadCSVFile(fsys, "missing.csv")
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	for _, s := range []string{"2024-03-01T12:30:00Z", "2024-03-01 12:30:00", "2024-03-01T12:30:00", "20240301T123000Z", "1709296200"} {
		got, err := ParseTime(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s -> %v", s, got)
	}
	_, err := ParseTime("NaN")
	assert.Error(t, err)
}

func TestParseTime_CompactDateIsNotUnixSeconds(t *testing.T) {
	got, err := ParseTime("20240101")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTime("1700000000.5")
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 5e8).UTC(), got)
}

func TestWriteCSV(t *testing.T) {
	table, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	rs := &qc.ResultSet{Results: []qc.TestResult{
		{StreamID: "temp", Test: qc.GrossRangeTest, Flags: []qc.Flag{qc.Suspect, qc.Pass, qc.Fail}},
	}}
	ds, err := qc.Merge(table, rs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))

	want := `time,temp,salinity,temp_gross_range_test
2024-01-01T00:00:00Z,5,35,3
2024-01-01T00:01:00Z,12,,1
2024-01-01T00:02:00Z,60,,4
`
	assert.Equal(t, want, buf.String())

	// Written files load back with the flag column as an ordinary column.
	back, err := LoadCSV(&buf)
	require.NoError(t, err)
	flags, ok := back.Column("temp_gross_range_test")
	require.True(t, ok)
	assert.Equal(t, []float64{3, 1, 4}, flags.Values)
}
