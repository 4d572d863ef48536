// Package qc evaluates quality-control tests against observation streams.
//
// A run takes a validated Config, applies each configured test to the
// matching Stream, and produces one Flag per sample. Results can be merged
// back onto the source Table by row position and split into per-flag masks
// for plotting.
package qc

import "fmt"

// Flag is the QC outcome for a single sample.
// The numeric codes are read by renderers and exported files; do not renumber.
type Flag uint8

const (
	Pass         Flag = 1
	NotEvaluated Flag = 2
	Suspect      Flag = 3
	Fail         Flag = 4
)

// AllFlags lists every flag in code order.
var AllFlags = [...]Flag{Pass, NotEvaluated, Suspect, Fail}

// Valid reports whether f is one of the four defined codes.
func (f Flag) Valid() bool {
	return f >= Pass && f <= Fail
}

func (f Flag) String() string {
	switch f {
	case Pass:
		return "pass"
	case NotEvaluated:
		return "not_evaluated"
	case Suspect:
		return "suspect"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("flag(%d)", uint8(f))
	}
}

// ParseFlag converts a numeric code back into a Flag.
func ParseFlag(code int) (Flag, error) {
	f := Flag(code)
	if code < 0 || code > 255 || !f.Valid() {
		return 0, fmt.Errorf("invalid flag code %d", code)
	}
	return f, nil
}
