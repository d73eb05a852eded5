package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/woundlab/segreport/internal/aggregate"
	"github.com/woundlab/segreport/internal/dataset"
)

// echartsAssetsPrefix is the assets host injected into every rendered chart
// page so the echarts runtime loads from a stable location.
const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// viridisColors is the viridis ramp used by the visual map on scatter charts.
var viridisColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// handleUsageChart renders the per-source record counts as a bar chart.
// Unused sources are omitted; the subtitle carries the pool-level totals.
func (s *Server) handleUsageChart(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.loadSummary(w)
	if !ok {
		return
	}

	hist, err := aggregate.ComputeUsageHistogram(summary.Records, summary.SourcePoolSize)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute usage histogram: %v", err))
		return
	}

	used := hist.UsedSources()
	xAxis := make([]string, 0, len(used))
	data := make([]opts.BarData, 0, len(used))
	for _, idx := range used {
		xAxis = append(xAxis, strconv.Itoa(idx))
		data = append(data, opts.BarData{Value: hist[idx]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Source Usage",
			Theme:      "dark",
			Width:      "100%",
			Height:     "520px",
			AssetsHost: echartsAssetsPrefix,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Source Image Usage",
			Subtitle: fmt.Sprintf("%d records from %d of %d source images", hist.Total(), len(used), summary.SourcePoolSize),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "source index"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "records"}),
	)
	bar.SetXAxis(xAxis).AddSeries("records", data)

	s.renderChart(w, bar)
}

// handleBalanceChart renders actual vs target record counts per class as a
// grouped bar chart.
func (s *Server) handleBalanceChart(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.loadSummary(w)
	if !ok {
		return
	}

	counts, err := aggregate.ComputeClassCounts(summary.Records, summary.Target, dataset.DefaultClassOrder)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute class counts: %v", err))
		return
	}

	xAxis := make([]string, 0, len(dataset.DefaultClassOrder))
	actual := make([]opts.BarData, 0, len(dataset.DefaultClassOrder))
	target := make([]opts.BarData, 0, len(dataset.DefaultClassOrder))
	for _, c := range dataset.DefaultClassOrder {
		xAxis = append(xAxis, string(c))
		actual = append(actual, opts.BarData{Value: counts[c].Actual})
		target = append(target, opts.BarData{Value: counts[c].Target})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Class Balance",
			Theme:      "dark",
			Width:      "100%",
			Height:     "520px",
			AssetsHost: echartsAssetsPrefix,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Class Balance",
			Subtitle: fmt.Sprintf("actual vs target counts for %d records", counts.TotalActual()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "records"}),
	)
	bar.SetXAxis(xAxis).
		AddSeries("actual", actual, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"})).
		AddSeries("target", target)

	s.renderChart(w, bar)
}

// handleCoverageChart renders min/mean/max coverage per class as a grouped
// bar chart.
func (s *Server) handleCoverageChart(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.loadSummary(w)
	if !ok {
		return
	}

	stats, err := aggregate.ComputeCoverageStats(summary.Records, dataset.DefaultClassOrder)
	if errors.Is(err, aggregate.ErrInvalidInput) {
		s.writeJSONError(w, http.StatusNotFound, "summary has no records to compute coverage from")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute coverage stats: %v", err))
		return
	}

	xAxis := make([]string, 0, len(dataset.DefaultClassOrder))
	minVals := make([]opts.BarData, 0, len(dataset.DefaultClassOrder))
	meanVals := make([]opts.BarData, 0, len(dataset.DefaultClassOrder))
	maxVals := make([]opts.BarData, 0, len(dataset.DefaultClassOrder))
	for _, c := range dataset.DefaultClassOrder {
		cs := stats[c]
		xAxis = append(xAxis, string(c))
		minVals = append(minVals, opts.BarData{Value: roundPct(cs.Min)})
		meanVals = append(meanVals, opts.BarData{Value: roundPct(cs.Mean)})
		maxVals = append(maxVals, opts.BarData{Value: roundPct(cs.Max)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Coverage",
			Theme:      "dark",
			Width:      "100%",
			Height:     "520px",
			AssetsHost: echartsAssetsPrefix,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Coverage per Class",
			Subtitle: fmt.Sprintf("min / mean / max across %d records, percent of image area", len(summary.Records)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "coverage %", Min: 0, Max: 100}),
	)
	bar.SetXAxis(xAxis).
		AddSeries("min", minVals).
		AddSeries("mean", meanVals, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"})).
		AddSeries("max", maxVals)

	s.renderChart(w, bar)
}

// handleBBoxChart renders bounding-box width vs height as a scatter chart
// with the area mapped onto the viridis color ramp.
func (s *Server) handleBBoxChart(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.loadSummary(w)
	if !ok {
		return
	}

	stats, err := aggregate.ComputeBoundingBoxStats(summary.Records)
	if errors.Is(err, aggregate.ErrInvalidInput) {
		s.writeJSONError(w, http.StatusNotFound, "summary has no bounding-box tensors")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute bounding-box stats: %v", err))
		return
	}

	data := make([]opts.ScatterData, 0, stats.Count)
	for _, rec := range summary.Records {
		if rec.BBox == nil {
			continue
		}
		data = append(data, opts.ScatterData{
			Value: []interface{}{rec.BBox.Width, rec.BBox.Height, rec.BBox.Area()},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Bounding Boxes",
			Theme:      "dark",
			Width:      "100%",
			Height:     "520px",
			AssetsHost: echartsAssetsPrefix,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Wound Bounding Boxes",
			Subtitle: fmt.Sprintf("%d boxes, mean area %.0f px", stats.Count, stats.Area.Mean),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "width (px)",
			NameLocation: "middle",
			NameGap:      30,
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "height (px)"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(stats.Area.Min),
			Max:        float32(stats.Area.Max),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridisColors},
		}),
	)
	scatter.AddSeries("bboxes", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
	)

	s.renderChart(w, scatter)
}

// handleChannelChart renders min/mean/max of the per-channel mean intensities.
func (s *Server) handleChannelChart(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.loadSummary(w)
	if !ok {
		return
	}

	stats, err := aggregate.ComputeChannelStats(summary.Records)
	if errors.Is(err, aggregate.ErrInvalidInput) {
		s.writeJSONError(w, http.StatusNotFound, "summary has no channel-mean tensors")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute channel stats: %v", err))
		return
	}

	channels := []struct {
		label string
		cs    aggregate.CoverageStats
	}{
		{"R", stats.R},
		{"G", stats.G},
		{"B", stats.B},
	}

	xAxis := make([]string, 0, len(channels))
	minVals := make([]opts.BarData, 0, len(channels))
	meanVals := make([]opts.BarData, 0, len(channels))
	maxVals := make([]opts.BarData, 0, len(channels))
	for _, ch := range channels {
		xAxis = append(xAxis, ch.label)
		minVals = append(minVals, opts.BarData{Value: roundIntensity(ch.cs.Min)})
		meanVals = append(meanVals, opts.BarData{Value: roundIntensity(ch.cs.Mean)})
		maxVals = append(maxVals, opts.BarData{Value: roundIntensity(ch.cs.Max)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Channel Means",
			Theme:      "dark",
			Width:      "100%",
			Height:     "520px",
			AssetsHost: echartsAssetsPrefix,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Channel Mean Intensities",
			Subtitle: fmt.Sprintf("min / mean / max across %d records, normalized to [0, 1]", stats.Count),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "intensity", Min: 0, Max: 1}),
	)
	bar.SetXAxis(xAxis).
		AddSeries("min", minVals).
		AddSeries("mean", meanVals, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"})).
		AddSeries("max", maxVals)

	s.renderChart(w, bar)
}

// renderChart writes a rendered chart page to the response.
func (s *Server) renderChart(w http.ResponseWriter, c chartRenderer) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type chartRenderer interface {
	Render(w io.Writer) error
}

// roundPct trims a coverage percentage to two decimals for labels.
func roundPct(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundIntensity trims a channel intensity to three decimals for labels.
func roundIntensity(v float64) float64 {
	return math.Round(v*1000) / 1000
}
