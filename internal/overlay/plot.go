package overlay

import (
	"fmt"
	"io"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// RenderPNG writes a static gonum/plot image for the overlay.
func (o *Overlay) RenderPNG(w io.Writer) error {
	p := plot.New()
	p.Title.Text = o.Heading()
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Observation Value"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02\n15:04:05"}
	p.Add(plotter.NewGrid())

	for i, seg := range o.segments() {
		pts := make(plotter.XYs, len(seg))
		for j, idx := range seg {
			pts[j] = plotter.XY{X: unixSeconds(o.Times[idx]), Y: o.Values[idx]}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("obs line: %w", err)
		}
		l.Color = obsStyle.Color
		l.Width = vg.Points(1)
		p.Add(l)
		if i == 0 {
			p.Legend.Add(obsStyle.Label, l)
		}
	}

	for _, f := range DrawOrder {
		style := Styles[f]
		ts, vs := o.points(f)
		if len(ts) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(ts))
		for i := range ts {
			pts[i] = plotter.XY{X: unixSeconds(ts[i]), Y: vs[i]}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("%s scatter: %w", style.Label, err)
		}
		s.GlyphStyle.Color = style.Color
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(style.Size / 2)
		p.Add(s)
		p.Legend.Add(style.Label, s)
	}

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// unixSeconds matches the default time conversion of plot.TimeTicks.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
