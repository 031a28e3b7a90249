// Package report renders HTML drift reports for stored analysis runs.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ravin/steadyhead/internal/store"
)

// DriftChart renders a line chart of the head's distance from the
// tolerance circle center over the run's frames, with the radius drawn
// as a flat reference series. The output is a self-contained HTML page.
func DriftChart(w io.Writer, run *store.Run, frames []store.Frame) error {
	labels := make([]string, 0, len(frames))
	distances := make([]opts.LineData, 0, len(frames))
	radius := make([]opts.LineData, 0, len(frames))
	for _, f := range frames {
		labels = append(labels, strconv.Itoa(f.Index))
		distances = append(distances, opts.LineData{Value: f.Distance})
		radius = append(radius, opts.LineData{Value: run.Radius})
	}

	subtitle := fmt.Sprintf("run=%s frames=%d outside=%.1f%%",
		run.ID, run.TotalFrames, run.OutsidePercent)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Head Drift Report", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Head Drift", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Distance (px)"}),
	)

	line.SetXAxis(labels).
		AddSeries("distance", distances).
		AddSeries("tolerance radius", radius,
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Color: "#ff5252"}),
		)

	return line.Render(w)
}
