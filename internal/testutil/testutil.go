// Package testutil provides shared test fixtures for QC streams and tables.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/banshee-data/qcflags/internal/qc"
)

// Epoch is the base timestamp used by fixtures.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Missing is a readable alias for a missing fixture value.
var Missing = math.NaN()

// Times returns Epoch offset by each entry of secs.
func Times(secs ...float64) []time.Time {
	out := make([]time.Time, len(secs))
	for i, s := range secs {
		out[i] = Epoch.Add(time.Duration(s * float64(time.Second)))
	}
	return out
}

// EvenTimes returns n timestamps spaced step apart starting at Epoch.
func EvenTimes(n int, step time.Duration) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = Epoch.Add(time.Duration(i) * step)
	}
	return out
}

// Stream builds a stream sampled once per second. NaN values are missing.
func Stream(t testing.TB, id string, values ...float64) qc.Stream {
	t.Helper()
	return StreamAt(t, id, EvenTimes(len(values), time.Second), values)
}

// StreamAt builds a stream from explicit timestamps.
func StreamAt(t testing.TB, id string, times []time.Time, values []float64) qc.Stream {
	t.Helper()
	s, err := qc.NewStream(id, times, values)
	if err != nil {
		t.Fatalf("building stream %q: %v", id, err)
	}
	return s
}

// Table builds a table from a time column and value columns.
func Table(times []time.Time, cols ...qc.Column) *qc.Table {
	return &qc.Table{Times: times, Columns: cols}
}

// AssertFlags fails the test when got and want differ at any index.
func AssertFlags(t testing.TB, got, want []qc.Flag) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d flags %v, want %d flags %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("flag[%d] = %v, want %v (got %v)", i, got[i], want[i], got)
		}
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
