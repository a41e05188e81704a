// Package report renders a fused run as a standalone HTML page with
// go-echarts charts: the distribution of minimum arrival altitudes and the
// pixel count per winning source.
package report

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/glideline-data/reach.report/internal/grid"
)

// histogramBins is the number of altitude buckets in the report.
const histogramBins = 40

// Write renders the report for a fused grid and its provenance grid to an
// HTML file. sourceNames maps provenance ids to display names; ids beyond
// the slice are labelled by number.
func Write(fused, sectors *grid.Grid, sourceNames []string, path string) error {
	page := components.NewPage()
	page.PageTitle = "Reachability report"

	hist, err := altitudeHistogram(fused)
	if err != nil {
		return err
	}
	page.AddCharts(hist, sourceCounts(sectors, sourceNames))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func altitudeHistogram(fused *grid.Grid) (*charts.Bar, error) {
	min, max := math.Inf(1), math.Inf(-1)
	var n int
	for _, row := range fused.Data {
		for _, v := range row {
			if fused.IsNoData(v) {
				continue
			}
			n++
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("fused grid has no valid cells")
	}

	span := max - min
	if span == 0 {
		span = 1
	}
	counts := make([]int, histogramBins)
	for _, row := range fused.Data {
		for _, v := range row {
			if fused.IsNoData(v) {
				continue
			}
			b := int((v - min) / span * histogramBins)
			if b >= histogramBins {
				b = histogramBins - 1
			}
			counts[b]++
		}
	}

	labels := make([]string, histogramBins)
	data := make([]opts.BarData, histogramBins)
	for i := range counts {
		labels[i] = fmt.Sprintf("%.0f", min+(float64(i)+0.5)*span/histogramBins)
		data[i] = opts.BarData{Value: counts[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Minimum arrival altitude",
			Subtitle: fmt.Sprintf("%d valid cells, %.0f to %.0f", n, min, max),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "altitude"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cells"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("cells", data)
	return bar, nil
}

func sourceCounts(sectors *grid.Grid, sourceNames []string) *charts.Bar {
	counts := map[int]int{}
	for _, row := range sectors.Data {
		for _, v := range row {
			if sectors.IsNoData(v) {
				continue
			}
			counts[int(v)]++
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	labels := make([]string, len(ids))
	data := make([]opts.BarData, len(ids))
	for i, id := range ids {
		if id >= 0 && id < len(sourceNames) {
			labels[i] = sourceNames[id]
		} else {
			labels[i] = fmt.Sprintf("source %d", id)
		}
		data[i] = opts.BarData{Value: counts[id]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Winning source per cell",
			Subtitle: fmt.Sprintf("%d sources", len(ids)),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cells"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("cells", data)
	return bar
}
