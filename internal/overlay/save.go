package overlay

import (
	"fmt"

	"github.com/banshee-data/qcflags/internal/fsutil"
	"github.com/banshee-data/qcflags/internal/security"
)

// Formats accepted by Save.
const (
	FormatHTML = "html"
	FormatPNG  = "png"
)

// Save renders the overlay into dir in the given format and returns the
// written path.
func (o *Overlay) Save(fsys fsutil.FileSystem, dir, format string) (string, error) {
	render := o.RenderHTML
	switch format {
	case FormatHTML:
	case FormatPNG:
		render = o.RenderPNG
	default:
		return "", fmt.Errorf("unsupported plot format %q", format)
	}

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path, err := security.JoinWithinDirectory(dir, o.FileName(format))
	if err != nil {
		return "", err
	}
	f, err := fsys.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
