package qc

// SetRunTest replaces the test runner used by Collect and returns a
// function restoring the original.
func SetRunTest(f func(Stream, Parameters) ([]Flag, error)) (restore func()) {
	orig := runTest
	runTest = f
	return func() { runTest = orig }
}
