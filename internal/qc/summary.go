package qc

// Summary counts flags in one result.
type Summary struct {
	StreamID string
	Test     TestKind
	Total    int
	Counts   map[Flag]int
}

// Summarize tallies the flags of r. Every defined flag has an entry, even
// when its count is zero.
func Summarize(r TestResult) Summary {
	s := Summary{StreamID: r.StreamID, Test: r.Test, Total: len(r.Flags), Counts: make(map[Flag]int, len(AllFlags))}
	for _, f := range AllFlags {
		s.Counts[f] = 0
	}
	for _, f := range r.Flags {
		s.Counts[f]++
	}
	return s
}

// Fraction returns the share of samples carrying flag f.
func (s Summary) Fraction(f Flag) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Counts[f]) / float64(s.Total)
}
