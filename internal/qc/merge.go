package qc

// FlagColumn is a flag-valued column appended by Merge.
type FlagColumn struct {
	Name     string
	StreamID string
	Test     TestKind
	Flags    []Flag
}

// AugmentedDataset is a source table plus one flag column per test result,
// aligned by row index. It is a read-only view.
type AugmentedDataset struct {
	Table       *Table
	FlagColumns []FlagColumn
}

// FlagColumnName is the name Merge gives the flags for a (stream, test) pair.
func FlagColumnName(streamID string, test TestKind) string {
	return streamID + "_" + string(test)
}

// Merge appends the flags of every result in results to source, joined by
// row position. A result whose length differs from the table is rejected
// with a MergeError; flags are never truncated or padded.
func Merge(source *Table, results *ResultSet) (*AugmentedDataset, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	ds := &AugmentedDataset{Table: source}
	if results == nil {
		return ds, nil
	}

	names := make(map[string]bool, len(source.Columns)+len(results.Results))
	for _, c := range source.Columns {
		names[c.Name] = true
	}

	rows := source.Len()
	for _, r := range results.Results {
		name := FlagColumnName(r.StreamID, r.Test)
		if len(r.Flags) != rows {
			return nil, &MergeError{Column: name, Want: rows, Got: len(r.Flags), Err: ErrLengthMismatch}
		}
		if names[name] {
			return nil, &MergeError{Column: name, Err: ErrDuplicateColumn}
		}
		names[name] = true

		flags := make([]Flag, rows)
		copy(flags, r.Flags)
		ds.FlagColumns = append(ds.FlagColumns, FlagColumn{
			Name:     name,
			StreamID: r.StreamID,
			Test:     r.Test,
			Flags:    flags,
		})
	}
	return ds, nil
}

// Len returns the number of rows.
func (d *AugmentedDataset) Len() int {
	return d.Table.Len()
}

// FlagColumn returns a copy of the flags merged for a (stream, test) pair.
func (d *AugmentedDataset) FlagColumn(streamID string, test TestKind) ([]Flag, bool) {
	for _, fc := range d.FlagColumns {
		if fc.StreamID == streamID && fc.Test == test {
			out := make([]Flag, len(fc.Flags))
			copy(out, fc.Flags)
			return out, true
		}
	}
	return nil, false
}

// Result re-extracts the TestResult for a (stream, test) pair.
func (d *AugmentedDataset) Result(streamID string, test TestKind) (TestResult, bool) {
	flags, ok := d.FlagColumn(streamID, test)
	if !ok {
		return TestResult{}, false
	}
	return TestResult{StreamID: streamID, Test: test, Flags: flags}, true
}
