package qc

import "math"

// RateOfChange flags each sample by the rate of change from the previous
// sample in units per second. The first sample has nothing to difference
// against and is not evaluated. A sample is also not evaluated when either
// value is missing or the elapsed time is not positive.
//
// The test only produces Pass, Fail or NotEvaluated.
func RateOfChange(s Stream, p RateOfChangeParameters) []Flag {
	flags := make([]Flag, len(s.Samples))
	for i := range s.Samples {
		if i == 0 {
			flags[i] = NotEvaluated
			continue
		}
		prev, cur := s.Samples[i-1], s.Samples[i]
		if prev.IsMissing() || cur.IsMissing() {
			flags[i] = NotEvaluated
			continue
		}
		elapsed := cur.Time.Sub(prev.Time).Seconds()
		if elapsed <= 0 {
			flags[i] = NotEvaluated
			continue
		}
		rate := (cur.Value - prev.Value) / elapsed
		switch {
		case math.IsNaN(rate) || math.IsInf(rate, 0):
			// Overflow on extreme inputs; treat as unusable.
			flags[i] = NotEvaluated
		case math.Abs(rate) > p.Threshold:
			flags[i] = Fail
		default:
			flags[i] = Pass
		}
	}
	return flags
}
