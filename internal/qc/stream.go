package qc

import (
	"fmt"
	"math"
	"time"
)

// Sample is one timestamped observation. NaN values are treated as missing
// in addition to samples with Missing set.
type Sample struct {
	Time    time.Time
	Value   float64
	Missing bool
}

// IsMissing reports whether the sample carries no usable value.
func (s Sample) IsMissing() bool {
	return s.Missing || math.IsNaN(s.Value)
}

// Stream is an ordered sequence of samples for one variable.
// Timestamps are expected to be non-decreasing but need not be evenly spaced.
type Stream struct {
	ID      string
	Samples []Sample
}

// NewStream pairs timestamps with values. NaN values become missing samples.
func NewStream(id string, times []time.Time, values []float64) (Stream, error) {
	if len(times) != len(values) {
		return Stream{}, fmt.Errorf("%w: stream %q has %d timestamps and %d values",
			ErrMalformedTable, id, len(times), len(values))
	}
	samples := make([]Sample, len(values))
	for i, v := range values {
		samples[i] = Sample{Time: times[i], Value: v, Missing: math.IsNaN(v)}
	}
	return Stream{ID: id, Samples: samples}, nil
}

// Len returns the number of samples.
func (s Stream) Len() int {
	return len(s.Samples)
}

// Values returns sample values with NaN in place of missing samples.
func (s Stream) Values() []float64 {
	out := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		if smp.IsMissing() {
			out[i] = math.NaN()
			continue
		}
		out[i] = smp.Value
	}
	return out
}

// Times returns the sample timestamps.
func (s Stream) Times() []time.Time {
	out := make([]time.Time, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Time
	}
	return out
}
