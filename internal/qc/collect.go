package qc

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/qcflags/internal/monitoring"
)

// TestResult holds the flags produced by one test on one stream.
// Flags are positionally aligned with the stream's samples.
type TestResult struct {
	StreamID string
	Test     TestKind
	Flags    []Flag
}

// Diagnostic records a stream or test skipped during collection.
type Diagnostic struct {
	StreamID string
	Test     TestKind
	Err      error
}

// ResultSet is the output of one collection run.
type ResultSet struct {
	RunID       string
	Results     []TestResult
	Diagnostics []Diagnostic
}

// Find returns the result for a (stream, test) pair.
func (rs *ResultSet) Find(streamID string, test TestKind) (TestResult, bool) {
	if rs == nil {
		return TestResult{}, false
	}
	for _, r := range rs.Results {
		if r.StreamID == streamID && r.Test == test {
			return r, true
		}
	}
	return TestResult{}, false
}

// CollectOptions tunes Collect. The zero value is usable.
type CollectOptions struct {
	// Workers bounds concurrent test evaluations. Defaults to GOMAXPROCS.
	Workers int
	// RunID labels the result set. A random UUID is used when empty.
	RunID string
}

// runTest is swapped in tests to exercise the length check.
var runTest = RunTest

type job struct {
	stream Stream
	test   TestKind
	params Parameters
}

type outcome struct {
	flags []Flag
	err   error
}

// Collect runs every configured test against the matching stream in
// datasets. See CollectWithOptions.
func Collect(datasets map[string]Stream, cfg Config) (*ResultSet, error) {
	return CollectWithOptions(datasets, cfg, CollectOptions{})
}

// CollectWithOptions validates cfg, then runs each configured (stream, test)
// pair. Streams configured but absent from datasets are skipped with a
// Diagnostic and a warning; streams present only in datasets are ignored.
//
// Pairs are evaluated concurrently. Results are ordered by stream ID and
// then test kind regardless of scheduling.
func CollectWithOptions(datasets map[string]Stream, cfg Config, opts CollectOptions) (*ResultSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rs := &ResultSet{RunID: opts.RunID}
	if rs.RunID == "" {
		rs.RunID = uuid.NewString()
	}

	var jobs []job
	for _, id := range cfg.StreamIDs() {
		stream, ok := datasets[id]
		if !ok {
			err := &ResultError{StreamID: id, Err: ErrUnknownStream}
			monitoring.Warnf("qc: skipping stream %q: %v", id, err)
			rs.Diagnostics = append(rs.Diagnostics, Diagnostic{StreamID: id, Err: err})
			continue
		}
		if stream.ID == "" {
			stream.ID = id
		}
		for _, kind := range cfg.Tests(id) {
			jobs = append(jobs, job{stream: stream, test: kind, params: cfg[id][kind]})
		}
	}

	outcomes := runJobs(jobs, opts.Workers)

	for i, j := range jobs {
		out := outcomes[i]
		if out.err != nil {
			err := &ResultError{StreamID: j.stream.ID, Err: out.err}
			monitoring.Warnf("qc: skipping %s on stream %q: %v", j.test, j.stream.ID, out.err)
			rs.Diagnostics = append(rs.Diagnostics, Diagnostic{StreamID: j.stream.ID, Test: j.test, Err: err})
			continue
		}
		if len(out.flags) != j.stream.Len() {
			return nil, fmt.Errorf("%w: %s on stream %q produced %d flags for %d samples",
				ErrInternalConsistency, j.test, j.stream.ID, len(out.flags), j.stream.Len())
		}
		rs.Results = append(rs.Results, TestResult{StreamID: j.stream.ID, Test: j.test, Flags: out.flags})
	}

	sort.SliceStable(rs.Results, func(a, b int) bool {
		if rs.Results[a].StreamID != rs.Results[b].StreamID {
			return rs.Results[a].StreamID < rs.Results[b].StreamID
		}
		return rs.Results[a].Test < rs.Results[b].Test
	})
	return rs, nil
}

// runJobs evaluates jobs on a bounded pool. Each worker writes only its own
// slot in the returned slice.
func runJobs(jobs []job, workers int) []outcome {
	outcomes := make([]outcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				flags, err := runTest(jobs[i].stream, jobs[i].params)
				outcomes[i] = outcome{flags: flags, err: err}
			}
		}()
	}
	for i := range jobs {
		idx <- i
	}
	close(idx)
	wg.Wait()
	return outcomes
}
