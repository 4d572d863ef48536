package overlay

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/qcflags/internal/qc"
)

// RenderHTML writes an interactive go-echarts page for the overlay.
func (o *Overlay) RenderHTML(w io.Writer) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Heading(), Width: "800px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Heading(), Subtitle: fmt.Sprintf("stream=%s points=%d", o.StreamID, len(o.Values))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "time", Name: "Time", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Observation Value", NameLocation: "middle", NameGap: 40, Min: o.Axis.Min, Max: o.Axis.Max}),
	)

	// A null entry breaks the line at missing values.
	obs := make([]opts.LineData, 0, len(o.Values))
	for i, seg := range o.segments() {
		if i > 0 {
			obs = append(obs, opts.LineData{Value: nil})
		}
		for _, idx := range seg {
			obs = append(obs, opts.LineData{Value: []interface{}{o.Times[idx].UnixMilli(), o.Values[idx]}})
		}
	}
	line.AddSeries(obsStyle.Label, obs,
		charts.WithLineStyleOpts(opts.LineStyle{Color: obsStyle.Hex}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: obsStyle.Hex}),
	)

	scatter := charts.NewScatter()
	for _, f := range DrawOrder {
		style := Styles[f]
		ts, vs := o.points(f)
		data := make([]opts.ScatterData, len(ts))
		for i := range ts {
			data[i] = opts.ScatterData{Value: []interface{}{ts[i].UnixMilli(), vs[i]}}
		}
		scatter.AddSeries(style.Label, data,
			symbolSize(f),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: style.Hex}),
		)
	}
	line.Overlap(scatter)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// symbolSize mirrors Styles[f].Size for go-echarts.
func symbolSize(f qc.Flag) charts.SeriesOpts {
	switch f {
	case qc.NotEvaluated:
		return charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2})
	case qc.Fail:
		return charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6})
	default:
		return charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4})
	}
}
