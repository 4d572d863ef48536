package qc

import "fmt"

// RunTest applies the test selected by the concrete type of p to s.
func RunTest(s Stream, p Parameters) ([]Flag, error) {
	v, _ := Deref(p)
	switch params := v.(type) {
	case GrossRangeParameters:
		return GrossRange(s, params), nil
	case RateOfChangeParameters:
		return RateOfChange(s, params), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownTest, p)
	}
}
