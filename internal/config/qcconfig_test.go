package config

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/qcflags/internal/fsutil"
	"github.com/banshee-data/qcflags/internal/qc"
)

const sampleDoc = `{
  "streams": {
    "temp": {
      "gross_range_test": {"fail_span": [0, 50], "suspect_span": [10, 40]},
      "rate_of_change_test": {"threshold": 0.25}
    }
  }
}`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	want := qc.Config{
		"temp": {
			qc.GrossRangeTest: qc.GrossRangeParameters{
				FailSpan:    qc.Span{Low: 0, High: 50},
				SuspectSpan: qc.Span{Low: 10, High: 40},
			},
			qc.RateOfChangeTest: qc.RateOfChangeParameters{Threshold: 0.25},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_HuJSON(t *testing.T) {
	doc := `{
  // trailing commas and comments are accepted
  "streams": {
    "temp": {"rate_of_change_test": {"threshold": 1,},},
  },
}`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, qc.RateOfChangeParameters{Threshold: 1}, cfg["temp"][qc.RateOfChangeTest])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown test", `{"streams": {"temp": {"spike_test": {}}}}`, qc.ErrUnknownTest},
		{"missing fail span", `{"streams": {"temp": {"gross_range_test": {"suspect_span": [1, 2]}}}}`, qc.ErrInvalidSpan},
		{"short span", `{"streams": {"temp": {"gross_range_test": {"fail_span": [1], "suspect_span": [1, 2]}}}}`, qc.ErrInvalidSpan},
		{"long span", `{"streams": {"temp": {"gross_range_test": {"fail_span": [0, 1, 2], "suspect_span": [0, 1]}}}}`, qc.ErrInvalidSpan},
		{"not nested", `{"streams": {"temp": {"gross_range_test": {"fail_span": [0, 10], "suspect_span": [5, 20]}}}}`, qc.ErrInvalidSpan},
		{"string span", `{"streams": {"temp": {"gross_range_test": {"fail_span": ["a", 1], "suspect_span": [0, 1]}}}}`, qc.ErrInvalidSpan},
		{"missing threshold", `{"streams": {"temp": {"rate_of_change_test": {}}}}`, qc.ErrInvalidThreshold},
		{"negative threshold", `{"streams": {"temp": {"rate_of_change_test": {"threshold": -3}}}}`, qc.ErrInvalidThreshold},
		{"unknown parameter", `{"streams": {"temp": {"rate_of_change_test": {"threshold": 1, "window": 3}}}}`, qc.ErrInvalidThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var cerr *qc.ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, "temp", cerr.StreamID)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, doc := range []string{``, `{`, `{"streams": []}`, `{}`, `{"stream": {}}`} {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, "doc %q", doc)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := qc.Config{
		"temp": {
			qc.GrossRangeTest: qc.GrossRangeParameters{
				FailSpan:    qc.Span{Low: -2.5, High: 40.000000000000007},
				SuspectSpan: qc.Span{Low: 0.1, High: 1.0 / 3.0},
			},
			qc.RateOfChangeTest: qc.RateOfChangeParameters{Threshold: math.SmallestNonzeroFloat64},
		},
		"salinity": {
			qc.RateOfChangeTest: qc.RateOfChangeParameters{Threshold: 1e300},
		},
	}

	data, err := Marshal(cfg)
	require.NoError(t, err)
	got, err := Parse(data)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	again, err := Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again), "Marshal output should be stable")
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestMarshal_PointerParameters(t *testing.T) {
	cfg := qc.Config{
		"temp": {
			qc.GrossRangeTest: &qc.GrossRangeParameters{
				FailSpan:    qc.Span{Low: 0, High: 50},
				SuspectSpan: qc.Span{Low: 10, High: 40},
			},
			qc.RateOfChangeTest: &qc.RateOfChangeParameters{Threshold: 1},
		},
	}
	require.NoError(t, cfg.Validate())

	data, err := Marshal(cfg)
	require.NoError(t, err)
	got, err := Parse(data)
	require.NoError(t, err)

	want := qc.Config{
		"temp": {
			qc.GrossRangeTest: qc.GrossRangeParameters{
				FailSpan:    qc.Span{Low: 0, High: 50},
				SuspectSpan: qc.Span{Low: 10, High: 40},
			},
			qc.RateOfChangeTest: qc.RateOfChangeParameters{Threshold: 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = Marshal(qc.Config{"temp": {qc.RateOfChangeTest: (*qc.RateOfChangeParameters)(nil)}})
	assert.ErrorIs(t, err, qc.ErrUnknownTest)
}

func TestLoadFS(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("qc.json", []byte(sampleDoc), 0o644))

	cfg, err := LoadFS(fsys, "qc.json")
	require.NoError(t, err)
	assert.Len(t, cfg["temp"], 2)
}

func TestLoadFS_Errors(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("qc.yaml", []byte(sampleDoc), 0o644))
	require.NoError(t, fsys.WriteFile("big.json", make([]byte, maxFileSize+1), 0o644))

	_, err := LoadFS(fsys, "qc.yaml")
	assert.ErrorContains(t, err, "extension")

	_, err = LoadFS(fsys, "missing.json")
	assert.ErrorContains(t, err, "stat")

	_, err = LoadFS(fsys, "big.json")
	assert.ErrorContains(t, err, "too large")
}

func TestSave(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	cfg := qc.Config{"temp": {qc.RateOfChangeTest: qc.RateOfChangeParameters{Threshold: 2}}}
	require.NoError(t, Save(fsys, "out.json", cfg))

	got, err := LoadFS(fsys, "out.json")
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_Example(t *testing.T) {
	cfg, err := Load("../../config/qc.example.hujson")
	require.NoError(t, err)
	assert.Equal(t, []string{"sea_water_practical_salinity", "sea_water_temperature"}, cfg.StreamIDs())
	assert.Equal(t, qc.RateOfChangeParameters{Threshold: 0.001},
		cfg["sea_water_temperature"][qc.RateOfChangeTest])
}
