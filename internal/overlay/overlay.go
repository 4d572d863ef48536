// Package overlay prepares QC flags for plotting and renders them as an
// observation line with one scatter layer per flag category.
package overlay

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/qcflags/internal/qc"
)

// Style is how one flag category is drawn.
type Style struct {
	Label string
	Hex   string
	Color color.NRGBA
	// Size is the marker diameter in points.
	Size float64
}

// Styles holds the category styles. Colours are opaque; categories are told
// apart by hue and marker size.
var Styles = map[qc.Flag]Style{
	qc.NotEvaluated: {Label: "qc not run", Hex: "#808080", Color: color.NRGBA{R: 128, G: 128, B: 128, A: 255}, Size: 2},
	qc.Pass:         {Label: "qc pass", Hex: "#008000", Color: color.NRGBA{R: 0, G: 128, B: 0, A: 255}, Size: 4},
	qc.Suspect:      {Label: "qc suspect", Hex: "#FFA500", Color: color.NRGBA{R: 255, G: 165, B: 0, A: 255}, Size: 4},
	qc.Fail:         {Label: "qc fail", Hex: "#FF0000", Color: color.NRGBA{R: 255, G: 0, B: 0, A: 255}, Size: 6},
}

// obsStyle is the underlying observation line.
var obsStyle = Style{Label: "obs", Hex: "#A6CEE3", Color: color.NRGBA{R: 166, G: 206, B: 227, A: 255}}

// DrawOrder layers the categories so failures sit on top.
var DrawOrder = []qc.Flag{qc.NotEvaluated, qc.Pass, qc.Suspect, qc.Fail}

// Axis is the extent of the plotted data. Min and Max cover finite values
// only; both are zero when there are none.
type Axis struct {
	Start time.Time
	End   time.Time
	Min   float64
	Max   float64
}

// Overlay is a single (stream, test) view ready to render.
type Overlay struct {
	Title    string
	StreamID string
	Test     qc.TestKind
	Times    []time.Time
	Values   []float64
	Mask     *qc.FlagMask
	Axis     Axis
}

// Build masks the stream column of table by the flags in r.
func Build(table *qc.Table, r qc.TestResult, title string) (*Overlay, error) {
	col, ok := table.Column(r.StreamID)
	if !ok {
		return nil, fmt.Errorf("overlay: %w: %q", qc.ErrUnknownStream, r.StreamID)
	}
	mask, err := qc.Mask(col.Values, r.Flags)
	if err != nil {
		return nil, fmt.Errorf("overlay: %s/%s: %w", r.StreamID, r.Test, err)
	}
	return &Overlay{
		Title:    title,
		StreamID: r.StreamID,
		Test:     r.Test,
		Times:    table.Times,
		Values:   col.Values,
		Mask:     mask,
		Axis:     axisFor(table.Times, col.Values),
	}, nil
}

// Heading is the chart title, "<test> : <title>".
func (o *Overlay) Heading() string {
	return string(o.Test) + " : " + o.Title
}

// FileName is the base name used when saving the overlay.
func (o *Overlay) FileName(ext string) string {
	return fmt.Sprintf("%s.%s", qc.FlagColumnName(o.StreamID, o.Test), ext)
}

func axisFor(times []time.Time, values []float64) Axis {
	var a Axis
	if len(times) > 0 {
		a.Start, a.End = times[0], times[len(times)-1]
	}
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if plottable(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) > 0 {
		a.Min, a.Max = floats.Min(finite), floats.Max(finite)
	}
	return a
}

func plottable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// points returns the plottable present entries of a category as
// (time, value) pairs.
func (o *Overlay) points(f qc.Flag) ([]time.Time, []float64) {
	var ts []time.Time
	var vs []float64
	for _, p := range o.Mask.Series(f).Points() {
		if !plottable(p.Value) {
			continue
		}
		ts = append(ts, o.Times[p.Index])
		vs = append(vs, p.Value)
	}
	return ts, vs
}

// segments splits the observation line at missing values.
func (o *Overlay) segments() [][]int {
	var segs [][]int
	var cur []int
	for i, v := range o.Values {
		if !plottable(v) {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}
