package qc

import "fmt"

// MaskedValue is one position of a masked series. Present is false where
// the sample belongs to another flag category; Value is then meaningless.
// A present value may itself be NaN when the input was missing.
type MaskedValue struct {
	Value   float64
	Present bool
}

// MaskedSeries is an index-aligned view of a series for one flag category.
type MaskedSeries []MaskedValue

// MaskedPoint is a present entry of a MaskedSeries.
type MaskedPoint struct {
	Index int
	Value float64
}

// Points returns the present entries in index order.
func (m MaskedSeries) Points() []MaskedPoint {
	var pts []MaskedPoint
	for i, v := range m {
		if v.Present {
			pts = append(pts, MaskedPoint{Index: i, Value: v.Value})
		}
	}
	return pts
}

// Count returns the number of present entries.
func (m MaskedSeries) Count() int {
	n := 0
	for _, v := range m {
		if v.Present {
			n++
		}
	}
	return n
}

// FlagMask splits a series into four disjoint views, one per flag. Every
// index is present in exactly one of them.
type FlagMask struct {
	Pass         MaskedSeries
	NotEvaluated MaskedSeries
	Suspect      MaskedSeries
	Fail         MaskedSeries
}

// Series returns the view for flag f, or nil for an unknown flag.
func (m *FlagMask) Series(f Flag) MaskedSeries {
	switch f {
	case Pass:
		return m.Pass
	case NotEvaluated:
		return m.NotEvaluated
	case Suspect:
		return m.Suspect
	case Fail:
		return m.Fail
	}
	return nil
}

// Mask partitions values by flag. values and flags must have the same
// length and every flag must be a defined code.
func Mask(values []float64, flags []Flag) (*FlagMask, error) {
	if len(values) != len(flags) {
		return nil, fmt.Errorf("%w: %d values, %d flags", ErrLengthMismatch, len(values), len(flags))
	}
	n := len(values)
	m := &FlagMask{
		Pass:         make(MaskedSeries, n),
		NotEvaluated: make(MaskedSeries, n),
		Suspect:      make(MaskedSeries, n),
		Fail:         make(MaskedSeries, n),
	}
	for i, f := range flags {
		series := m.Series(f)
		if series == nil {
			return nil, fmt.Errorf("%w: code %d at index %d", ErrInvalidFlag, uint8(f), i)
		}
		series[i] = MaskedValue{Value: values[i], Present: true}
	}
	return m, nil
}
