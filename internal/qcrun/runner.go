// Package qcrun runs a QC configuration against a table end to end:
// streams are built from the table's columns, results are collected and
// merged back onto the table.
package qcrun

import (
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/qcflags/internal/monitoring"
	"github.com/banshee-data/qcflags/internal/qc"
	"github.com/banshee-data/qcflags/internal/timeutil"
)

// ErrResultNotFound is returned by Report.Lookup for a pair that was not run.
var ErrResultNotFound = errors.New("result not found")

// Runner holds run-wide settings. The zero value is usable.
type Runner struct {
	Clock   timeutil.Clock
	Workers int
}

// Report is everything one run produced.
type Report struct {
	RunID       string
	StartedAt   time.Time
	Duration    time.Duration
	Results     *qc.ResultSet
	Dataset     *qc.AugmentedDataset
	Diagnostics []qc.Diagnostic
}

// Run validates cfg, evaluates it against table and merges the flags.
func (r *Runner) Run(table *qc.Table, cfg qc.Config) (*Report, error) {
	clock := r.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	start := clock.Now()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	streams, err := table.Streams()
	if err != nil {
		return nil, err
	}

	rs, err := qc.CollectWithOptions(streams, cfg, qc.CollectOptions{Workers: r.Workers})
	if err != nil {
		return nil, err
	}
	ds, err := qc.Merge(table, rs)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", rs.RunID, err)
	}

	rep := &Report{
		RunID:       rs.RunID,
		StartedAt:   start,
		Duration:    clock.Since(start),
		Results:     rs,
		Dataset:     ds,
		Diagnostics: rs.Diagnostics,
	}
	monitoring.Logf("qc run %s: %d results, %d skipped in %v",
		rep.RunID, len(rs.Results), len(rs.Diagnostics), rep.Duration)
	return rep, nil
}

// Run is a convenience wrapper around a zero Runner.
func Run(table *qc.Table, cfg qc.Config) (*Report, error) {
	var r Runner
	return r.Run(table, cfg)
}

// Lookup returns the result for one (stream, test) pair.
func (rep *Report) Lookup(streamID string, test qc.TestKind) (qc.TestResult, error) {
	res, ok := rep.Results.Find(streamID, test)
	if !ok {
		return qc.TestResult{}, fmt.Errorf("%w: stream %q test %q", ErrResultNotFound, streamID, test)
	}
	return res, nil
}

// Summaries tallies flags for every result in run order.
func (rep *Report) Summaries() []qc.Summary {
	out := make([]qc.Summary, 0, len(rep.Results.Results))
	for _, res := range rep.Results.Results {
		out = append(out, qc.Summarize(res))
	}
	return out
}
