package qc

import (
	"sort"
)

// Config maps stream IDs to the tests configured for each stream.
// A Config is treated as read-only once a run starts.
type Config map[string]map[TestKind]Parameters

// Validate checks every stream/test entry and returns the first problem
// found. Streams and tests are visited in sorted order so the reported
// error is stable.
func (c Config) Validate() error {
	for _, id := range c.StreamIDs() {
		for _, kind := range c.Tests(id) {
			if !kind.Valid() {
				return &ConfigError{StreamID: id, Test: kind, Err: ErrUnknownTest}
			}
			params, ok := Deref(c[id][kind])
			if !ok {
				return &ConfigError{StreamID: id, Test: kind, Err: ErrKindMismatch, Detail: "no parameters"}
			}
			if params.Kind() != kind {
				return &ConfigError{StreamID: id, Test: kind, Err: ErrKindMismatch,
					Detail: "got " + string(params.Kind()) + " parameters"}
			}
			if detail, err := params.validate(); err != nil {
				return &ConfigError{StreamID: id, Test: kind, Err: err, Detail: detail}
			}
		}
	}
	return nil
}

// StreamIDs returns the configured stream IDs in sorted order.
func (c Config) StreamIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tests returns the test kinds configured for a stream in sorted order.
func (c Config) Tests(streamID string) []TestKind {
	tests := c[streamID]
	kinds := make([]TestKind, 0, len(tests))
	for k := range tests {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
