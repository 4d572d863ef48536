// Package config reads and writes QC configuration documents.
//
// The document shape is
//
//	{"streams": {"<stream>": {"gross_range_test": {"fail_span": [lo, hi], "suspect_span": [lo, hi]},
//	                          "rate_of_change_test": {"threshold": x}}}}
//
// Files may contain comments and trailing commas (HuJSON); they are
// standardized before decoding.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/tailscale/hujson"

	"github.com/banshee-data/qcflags/internal/fsutil"
	"github.com/banshee-data/qcflags/internal/qc"
)

// maxFileSize caps config files at 1MB.
const maxFileSize = 1 * 1024 * 1024

// Document is the serialized form of a qc.Config.
type Document struct {
	Streams map[string]map[qc.TestKind]json.RawMessage `json:"streams"`
}

type grossRangeDoc struct {
	FailSpan    []float64 `json:"fail_span"`
	SuspectSpan []float64 `json:"suspect_span"`
}

type rateOfChangeDoc struct {
	Threshold *float64 `json:"threshold"`
}

// Load reads and validates a config file from disk.
func Load(path string) (qc.Config, error) {
	return LoadFS(fsutil.OSFileSystem{}, path)
}

// LoadFS reads and validates a config file through fsys.
// The file must have a .json or .hujson extension and be under 1MB.
func LoadFS(fsys fsutil.FileSystem, path string) (qc.Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" && ext != ".hujson" {
		return nil, fmt.Errorf("config file must have .json or .hujson extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return cfg, nil
}

// Parse decodes and validates a config document.
func Parse(data []byte) (qc.Config, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(std))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if doc.Streams == nil {
		return nil, fmt.Errorf("config has no \"streams\" object")
	}

	ids := make([]string, 0, len(doc.Streams))
	for id := range doc.Streams {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cfg := make(qc.Config, len(doc.Streams))
	for _, id := range ids {
		tests := doc.Streams[id]
		kinds := make([]qc.TestKind, 0, len(tests))
		for kind := range tests {
			kinds = append(kinds, kind)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

		cfg[id] = make(map[qc.TestKind]qc.Parameters, len(tests))
		for _, kind := range kinds {
			params, err := decodeParams(id, kind, tests[kind])
			if err != nil {
				return nil, err
			}
			cfg[id][kind] = params
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeParams(id string, kind qc.TestKind, raw json.RawMessage) (qc.Parameters, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	switch kind {
	case qc.GrossRangeTest:
		var d grossRangeDoc
		if err := dec.Decode(&d); err != nil {
			return nil, &qc.ConfigError{StreamID: id, Test: kind, Err: qc.ErrInvalidSpan, Detail: err.Error()}
		}
		fail, err := spanFrom("fail_span", d.FailSpan)
		if err != nil {
			return nil, &qc.ConfigError{StreamID: id, Test: kind, Err: qc.ErrInvalidSpan, Detail: err.Error()}
		}
		suspect, err := spanFrom("suspect_span", d.SuspectSpan)
		if err != nil {
			return nil, &qc.ConfigError{StreamID: id, Test: kind, Err: qc.ErrInvalidSpan, Detail: err.Error()}
		}
		return qc.GrossRangeParameters{FailSpan: fail, SuspectSpan: suspect}, nil

	case qc.RateOfChangeTest:
		var d rateOfChangeDoc
		if err := dec.Decode(&d); err != nil {
			return nil, &qc.ConfigError{StreamID: id, Test: kind, Err: qc.ErrInvalidThreshold, Detail: err.Error()}
		}
		if d.Threshold == nil {
			return nil, &qc.ConfigError{StreamID: id, Test: kind, Err: qc.ErrInvalidThreshold, Detail: "threshold missing"}
		}
		return qc.RateOfChangeParameters{Threshold: *d.Threshold}, nil
	}
	return nil, &qc.ConfigError{StreamID: id, Test: kind, Err: qc.ErrUnknownTest}
}

func spanFrom(field string, v []float64) (qc.Span, error) {
	if v == nil {
		return qc.Span{}, fmt.Errorf("%s missing", field)
	}
	if len(v) != 2 {
		return qc.Span{}, fmt.Errorf("%s must be [low, high], got %d values", field, len(v))
	}
	return qc.Span{Low: v[0], High: v[1]}, nil
}

// Marshal encodes cfg as an indented document. Keys are sorted, so the
// output is stable.
func Marshal(cfg qc.Config) ([]byte, error) {
	doc := struct {
		Streams map[string]map[qc.TestKind]any `json:"streams"`
	}{Streams: make(map[string]map[qc.TestKind]any, len(cfg))}

	for id, tests := range cfg {
		doc.Streams[id] = make(map[qc.TestKind]any, len(tests))
		for kind, params := range tests {
			v, _ := qc.Deref(params)
			switch p := v.(type) {
			case qc.GrossRangeParameters:
				doc.Streams[id][kind] = grossRangeDoc{
					FailSpan:    []float64{p.FailSpan.Low, p.FailSpan.High},
					SuspectSpan: []float64{p.SuspectSpan.Low, p.SuspectSpan.High},
				}
			case qc.RateOfChangeParameters:
				threshold := p.Threshold
				doc.Streams[id][kind] = rateOfChangeDoc{Threshold: &threshold}
			default:
				return nil, &qc.ConfigError{StreamID: id, Test: kind, Err: qc.ErrUnknownTest, Detail: fmt.Sprintf("%T", params)}
			}
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes cfg to path through fsys.
func Save(fsys fsutil.FileSystem, path string, cfg qc.Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := fsys.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
