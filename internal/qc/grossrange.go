package qc

// GrossRange flags each sample against nested closed spans. Values outside
// the fail span fail; values inside the fail span but outside the suspect
// span are suspect. Missing samples are not evaluated.
func GrossRange(s Stream, p GrossRangeParameters) []Flag {
	flags := make([]Flag, len(s.Samples))
	for i, smp := range s.Samples {
		switch {
		case smp.IsMissing():
			flags[i] = NotEvaluated
		case !p.FailSpan.Contains(smp.Value):
			flags[i] = Fail
		case !p.SuspectSpan.Contains(smp.Value):
			flags[i] = Suspect
		default:
			flags[i] = Pass
		}
	}
	return flags
}
