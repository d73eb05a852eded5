package report

import (
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/woundlab/segreport/internal/aggregate"
)

var (
	barBlue     = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	targetGray  = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	whiskerGray = color.RGBA{R: 110, G: 110, B: 110, A: 255}
)

// renderUsageChart draws the per-source-image record counts as a bar chart.
func (b *Builder) renderUsageChart(path string) error {
	hist, err := aggregate.ComputeUsageHistogram(b.summary.Records, b.summary.SourcePoolSize)
	if err != nil {
		return err
	}

	var indices []int
	if b.opts.UsedSourcesOnly {
		indices = hist.UsedSources()
	}
	if len(indices) == 0 {
		// Full axis, either by configuration or because nothing is used yet.
		indices = make([]int, 0, b.summary.SourcePoolSize)
		for i := 1; i <= b.summary.SourcePoolSize; i++ {
			indices = append(indices, i)
		}
	}

	values := make(plotter.Values, len(indices))
	for i, idx := range indices {
		values[i] = float64(hist[idx])
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Source Image Usage (%d records over %d sources)",
		hist.Total(), b.summary.SourcePoolSize)
	p.X.Label.Text = "Source Index"
	p.Y.Label.Text = "Records"

	// Keep bars readable for small pools without overflowing large ones.
	width := vg.Points(900 / float64(len(indices)))
	if width > vg.Points(20) {
		width = vg.Points(20)
	}

	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return err
	}
	bars.Color = barBlue
	bars.LineStyle.Width = 0
	p.Add(bars)

	// Index labels are only legible when the axis is trimmed to used sources.
	if b.opts.UsedSourcesOnly {
		labels := make([]string, len(indices))
		for i, idx := range indices {
			labels[i] = strconv.Itoa(idx)
		}
		p.NominalX(labels...)
	}

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}

// renderBalanceChart draws actual vs target record counts per class as
// grouped bars.
func (b *Builder) renderBalanceChart(path string) error {
	counts, err := aggregate.ComputeClassCounts(b.summary.Records, b.summary.Target, b.order)
	if err != nil {
		return err
	}

	actuals := make(plotter.Values, len(b.order))
	targets := make(plotter.Values, len(b.order))
	labels := make([]string, len(b.order))
	for i, c := range b.order {
		actuals[i] = float64(counts[c].Actual)
		targets[i] = float64(counts[c].Target)
		labels[i] = string(c)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Class Balance (%d records)", counts.TotalActual())
	p.X.Label.Text = "Target Class"
	p.Y.Label.Text = "Records"

	w := vg.Points(20)

	actualBars, err := plotter.NewBarChart(actuals, w)
	if err != nil {
		return err
	}
	actualBars.Color = barBlue
	actualBars.LineStyle.Width = 0
	actualBars.Offset = -w / 2

	targetBars, err := plotter.NewBarChart(targets, w)
	if err != nil {
		return err
	}
	targetBars.Color = targetGray
	targetBars.LineStyle.Width = 0
	targetBars.Offset = w / 2

	p.Add(actualBars, targetBars)
	p.Legend.Add("actual", actualBars)
	p.Legend.Add("target", targetBars)
	p.Legend.Top = true
	p.Legend.Left = false
	p.NominalX(labels...)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// renderCoverageChart draws per-class coverage distributions: a min/max
// whisker, a thicker mean-centred stddev band, and the mean itself.
func (b *Builder) renderCoverageChart(path string) error {
	stats, err := aggregate.ComputeCoverageStats(b.summary.Records, b.order)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Coverage Percentage by Class"
	p.X.Label.Text = "Class"
	p.Y.Label.Text = "Coverage (%)"

	labels := make([]string, len(b.order))
	means := make(plotter.XYs, len(b.order))
	var firstWhisker, firstBand *plotter.Line

	for i, c := range b.order {
		s := stats[c]
		x := float64(i)
		labels[i] = string(c)
		means[i] = plotter.XY{X: x, Y: s.Mean}

		whisker, err := plotter.NewLine(plotter.XYs{{X: x, Y: s.Min}, {X: x, Y: s.Max}})
		if err != nil {
			return err
		}
		whisker.Color = whiskerGray
		whisker.Width = vg.Points(1)
		p.Add(whisker)
		if firstWhisker == nil {
			firstWhisker = whisker
		}

		band, err := plotter.NewLine(plotter.XYs{{X: x, Y: s.Mean - s.StdDev}, {X: x, Y: s.Mean + s.StdDev}})
		if err != nil {
			return err
		}
		band.Color = barBlue
		band.Width = vg.Points(4)
		p.Add(band)
		if firstBand == nil {
			firstBand = band
		}
	}

	meanDots, err := plotter.NewScatter(means)
	if err != nil {
		return err
	}
	meanDots.GlyphStyle.Color = color.Black
	meanDots.GlyphStyle.Radius = vg.Points(3)
	p.Add(meanDots)

	p.Legend.Add("min/max", firstWhisker)
	p.Legend.Add("mean ± stddev", firstBand)
	p.Legend.Add("mean", meanDots)
	p.Legend.Top = true
	p.Legend.Left = false
	p.NominalX(labels...)

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}

// renderBBoxChart draws a width vs height scatter of the wound bounding
// boxes, coloured by target class.
func (b *Builder) renderBBoxChart(path string) error {
	bstats, err := aggregate.ComputeBoundingBoxStats(b.summary.Records)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Wound Bounding Boxes (%d records)", bstats.Count)
	p.X.Label.Text = "Width (px)"
	p.Y.Label.Text = "Height (px)"

	colors := generateColors(len(b.order))
	for i, c := range b.order {
		var pts plotter.XYs
		for _, r := range b.summary.Records {
			if r.BBox == nil || r.TargetClass != c {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(r.BBox.Width), Y: float64(r.BBox.Height)})
		}
		if len(pts) == 0 {
			continue
		}

		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = colors[i]
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		p.Legend.Add(string(c), scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = false

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}

// renderChannelChart draws the mean intensity per colour channel with min/max
// whiskers.
func (b *Builder) renderChannelChart(path string) error {
	cstats, err := aggregate.ComputeChannelStats(b.summary.Records)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Channel Mean Intensity (%d records)", cstats.Count)
	p.X.Label.Text = "Channel"
	p.Y.Label.Text = "Mean intensity"

	channels := []struct {
		name  string
		color color.RGBA
		stats aggregate.CoverageStats
	}{
		{"R", color.RGBA{R: 205, G: 92, B: 92, A: 255}, cstats.R},
		{"G", color.RGBA{R: 96, G: 160, B: 96, A: 255}, cstats.G},
		{"B", color.RGBA{R: 92, G: 122, B: 190, A: 255}, cstats.B},
	}

	w := vg.Points(30)
	for i, ch := range channels {
		bar, err := plotter.NewBarChart(plotter.Values{ch.stats.Mean}, w)
		if err != nil {
			return err
		}
		bar.Color = ch.color
		bar.LineStyle.Width = 0
		bar.XMin = float64(i)
		p.Add(bar)

		whisker, err := plotter.NewLine(plotter.XYs{
			{X: float64(i), Y: ch.stats.Min},
			{X: float64(i), Y: ch.stats.Max},
		})
		if err != nil {
			return err
		}
		whisker.Color = whiskerGray
		whisker.Width = vg.Points(1)
		p.Add(whisker)
	}

	p.NominalX("R", "G", "B")

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// generateColors creates a palette of distinct colors for class series.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
