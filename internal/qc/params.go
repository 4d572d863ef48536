package qc

import (
	"fmt"
	"math"
)

// TestKind identifies a QC test. The string values are the keys used in
// configuration documents.
type TestKind string

const (
	GrossRangeTest   TestKind = "gross_range_test"
	RateOfChangeTest TestKind = "rate_of_change_test"
)

// Valid reports whether k is a supported test kind.
func (k TestKind) Valid() bool {
	return k == GrossRangeTest || k == RateOfChangeTest
}

// Parameters is implemented by each test's parameter type. Kind reports
// which test the parameters belong to.
type Parameters interface {
	Kind() TestKind
	validate() (detail string, err error)
}

// Deref returns p with pointer parameter types replaced by their values.
// It reports false for nil, including a typed nil pointer.
func Deref(p Parameters) (Parameters, bool) {
	switch v := p.(type) {
	case nil:
		return nil, false
	case *GrossRangeParameters:
		if v == nil {
			return nil, false
		}
		return *v, true
	case *RateOfChangeParameters:
		if v == nil {
			return nil, false
		}
		return *v, true
	}
	return p, true
}

// Span is a closed interval [Low, High].
type Span struct {
	Low  float64
	High float64
}

// Contains reports whether v lies in the span, endpoints included.
func (s Span) Contains(v float64) bool {
	return v >= s.Low && v <= s.High
}

func (s Span) finite() bool {
	return !math.IsNaN(s.Low) && !math.IsInf(s.Low, 0) &&
		!math.IsNaN(s.High) && !math.IsInf(s.High, 0)
}

func (s Span) String() string {
	return fmt.Sprintf("[%g, %g]", s.Low, s.High)
}

// GrossRangeParameters configures the gross range test. SuspectSpan must
// sit inside FailSpan.
type GrossRangeParameters struct {
	FailSpan    Span
	SuspectSpan Span
}

func (GrossRangeParameters) Kind() TestKind { return GrossRangeTest }

func (p GrossRangeParameters) validate() (string, error) {
	if !p.FailSpan.finite() {
		return fmt.Sprintf("fail_span %v is not finite", p.FailSpan), ErrInvalidSpan
	}
	if !p.SuspectSpan.finite() {
		return fmt.Sprintf("suspect_span %v is not finite", p.SuspectSpan), ErrInvalidSpan
	}
	f, s := p.FailSpan, p.SuspectSpan
	if !(f.Low <= s.Low && s.Low <= s.High && s.High <= f.High) {
		return fmt.Sprintf("suspect_span %v must lie within fail_span %v", s, f), ErrInvalidSpan
	}
	return "", nil
}

// RateOfChangeParameters configures the rate of change test. Threshold is
// the largest permitted absolute change per second.
type RateOfChangeParameters struct {
	Threshold float64
}

func (RateOfChangeParameters) Kind() TestKind { return RateOfChangeTest }

func (p RateOfChangeParameters) validate() (string, error) {
	if math.IsNaN(p.Threshold) || math.IsInf(p.Threshold, 0) {
		return fmt.Sprintf("threshold %g is not finite", p.Threshold), ErrInvalidThreshold
	}
	if p.Threshold < 0 {
		return fmt.Sprintf("threshold %g is negative", p.Threshold), ErrInvalidThreshold
	}
	return "", nil
}
