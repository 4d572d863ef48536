// Package security guards file paths built from configuration values.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFileName rejects names that are not a single path element.
// Stream IDs from configuration end up in output file names, so a name
// must not contain separators or parent references.
func ValidateFileName(name string) error {
	switch {
	case name == "" || name == "." || name == "..":
		return fmt.Errorf("invalid file name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("file name %q contains a path separator", name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("file name %q contains a NUL byte", name)
	}
	return nil
}

// JoinWithinDirectory joins dir and name after validating name, and
// verifies the cleaned result still sits directly inside dir.
func JoinWithinDirectory(dir, name string) (string, error) {
	if err := ValidateFileName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if filepath.Dir(path) != filepath.Clean(dir) {
		return "", fmt.Errorf("path traversal detected: %s attempts to escape %s", name, dir)
	}
	return path, nil
}
