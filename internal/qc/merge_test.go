package qc_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/qcflags/internal/qc"
	"github.com/banshee-data/qcflags/internal/testutil"
)

func sampleTable() *qc.Table {
	return testutil.Table(testutil.EvenTimes(3, time.Minute),
		qc.Column{Name: "temp", Values: []float64{5, 12, 60}},
		qc.Column{Name: "salinity", Values: []float64{35, testutil.Missing, 36}},
	)
}

func TestMerge_RoundTrip(t *testing.T) {
	table := sampleTable()
	streams, err := table.Streams()
	require.NoError(t, err)

	cfg := qc.Config{
		"temp":     {qc.GrossRangeTest: rangeParams, qc.RateOfChangeTest: qc.RateOfChangeParameters{Threshold: 0.5}},
		"salinity": {qc.RateOfChangeTest: qc.RateOfChangeParameters{Threshold: 0.5}},
	}
	rs, err := qc.Collect(streams, cfg)
	require.NoError(t, err)

	ds, err := qc.Merge(table, rs)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	require.Len(t, ds.FlagColumns, len(rs.Results))

	for _, r := range rs.Results {
		got, ok := ds.FlagColumn(r.StreamID, r.Test)
		require.True(t, ok, "%s/%s", r.StreamID, r.Test)
		testutil.AssertFlags(t, got, r.Flags)

		res, ok := ds.Result(r.StreamID, r.Test)
		require.True(t, ok)
		assert.Equal(t, r, res)
	}

	// Source columns are untouched.
	assert.Len(t, ds.Table.Columns, 2)
}

func TestMerge_ColumnNames(t *testing.T) {
	assert.Equal(t, "temp_gross_range_test", qc.FlagColumnName("temp", qc.GrossRangeTest))
	assert.Equal(t, "temp_rate_of_change_test", qc.FlagColumnName("temp", qc.RateOfChangeTest))

	rs := &qc.ResultSet{Results: []qc.TestResult{
		{StreamID: "temp", Test: qc.GrossRangeTest, Flags: []qc.Flag{qc.Pass, qc.Pass, qc.Pass}},
	}}
	ds, err := qc.Merge(sampleTable(), rs)
	require.NoError(t, err)
	assert.Equal(t, "temp_gross_range_test", ds.FlagColumns[0].Name)
}

func TestMerge_LengthMismatch(t *testing.T) {
	for _, n := range []int{2, 4} {
		flags := make([]qc.Flag, n)
		for i := range flags {
			flags[i] = qc.Pass
		}
		rs := &qc.ResultSet{Results: []qc.TestResult{{StreamID: "temp", Test: qc.GrossRangeTest, Flags: flags}}}

		ds, err := qc.Merge(sampleTable(), rs)
		assert.Nil(t, ds)
		require.ErrorIs(t, err, qc.ErrLengthMismatch)

		var merr *qc.MergeError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, 3, merr.Want)
		assert.Equal(t, n, merr.Got)
		assert.Equal(t, "temp_gross_range_test", merr.Column)
	}
}

func TestMerge_DuplicateColumn(t *testing.T) {
	table := sampleTable()
	table.Columns = append(table.Columns, qc.Column{Name: "temp_gross_range_test", Values: []float64{1, 1, 1}})
	rs := &qc.ResultSet{Results: []qc.TestResult{
		{StreamID: "temp", Test: qc.GrossRangeTest, Flags: []qc.Flag{qc.Pass, qc.Pass, qc.Pass}},
	}}
	_, err := qc.Merge(table, rs)
	assert.ErrorIs(t, err, qc.ErrDuplicateColumn)
}

func TestMerge_MalformedTable(t *testing.T) {
	table := sampleTable()
	table.Columns[0].Values = table.Columns[0].Values[:2]
	_, err := qc.Merge(table, &qc.ResultSet{})
	assert.ErrorIs(t, err, qc.ErrMalformedTable)

	_, err = qc.Merge(nil, &qc.ResultSet{})
	assert.ErrorIs(t, err, qc.ErrMalformedTable)
}

func TestMerge_CopiesFlags(t *testing.T) {
	flags := []qc.Flag{qc.Pass, qc.Pass, qc.Pass}
	rs := &qc.ResultSet{Results: []qc.TestResult{{StreamID: "temp", Test: qc.GrossRangeTest, Flags: flags}}}
	ds, err := qc.Merge(sampleTable(), rs)
	require.NoError(t, err)

	flags[0] = qc.Fail
	got, _ := ds.FlagColumn("temp", qc.GrossRangeTest)
	assert.Equal(t, qc.Pass, got[0])
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name  string
		table *qc.Table
	}{
		{"unnamed column", testutil.Table(testutil.Times(0), qc.Column{Values: []float64{1}})},
		{"duplicate column", testutil.Table(testutil.Times(0),
			qc.Column{Name: "a", Values: []float64{1}}, qc.Column{Name: "a", Values: []float64{1}})},
		{"ragged column", testutil.Table(testutil.Times(0, 1), qc.Column{Name: "a", Values: []float64{1}})},
		{"time goes backwards", testutil.Table(testutil.Times(1, 0), qc.Column{Name: "a", Values: []float64{1, 2}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.table.Validate(), qc.ErrMalformedTable)
		})
	}

	// Equal timestamps are allowed.
	ok := testutil.Table(testutil.Times(0, 0), qc.Column{Name: "a", Values: []float64{1, 2}})
	assert.NoError(t, ok.Validate())
}

func TestTable_Stream(t *testing.T) {
	table := sampleTable()
	s, err := table.Stream("salinity")
	require.NoError(t, err)
	assert.Equal(t, "salinity", s.ID)
	assert.True(t, s.Samples[1].IsMissing())

	_, err = table.Stream("nope")
	assert.ErrorIs(t, err, qc.ErrUnknownStream)
}
