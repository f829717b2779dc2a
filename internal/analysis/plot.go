// PNG plot rendering for collected metric series
package analysis

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Fixed colors per algorithm so plots stay comparable across reports.
var algorithmColors = map[string]color.RGBA{
	"cubic":       {R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	"fillp_sheep": {R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	"vegas":       {R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
}

func algorithmColor(algo string, fallback int) color.Color {
	if c, ok := algorithmColors[algo]; ok {
		return c
	}
	return plotutil.Color(fallback)
}

// PlotPairThroughput renders throughput over time for a single pair.
func PlotPairThroughput(s PairSeries, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Throughput Over Time - %s on %s", s.Algorithm, s.Profile.Name)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Throughput (Mbps)"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(throughputXYs(s))
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = algorithmColor(s.Algorithm, 0)
	p.Add(line)

	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}

// PlotProfileThroughput overlays throughput of all algorithms for one profile.
func PlotProfileThroughput(series []PairSeries, profile, path string) error {
	return plotProfileLines(series, profile, path,
		fmt.Sprintf("Throughput Over Time - %s", profile), "Throughput (Mbps)",
		func(s PairSeries) plotter.XYs { return throughputXYs(s) })
}

// PlotProfileLoss overlays packet loss of all algorithms for one profile.
func PlotProfileLoss(series []PairSeries, profile, path string) error {
	return plotProfileLines(series, profile, path,
		fmt.Sprintf("Packet Loss Rate Over Time - %s", profile), "Loss Rate (%)",
		func(s PairSeries) plotter.XYs {
			pts := make(plotter.XYs, len(s.Samples))
			for i, sample := range s.Samples {
				pts[i].X = sample.Timestamp
				pts[i].Y = sample.LossRate * 100
			}
			return pts
		})
}

// PlotProfileCDF renders the throughput CDF of all algorithms for one profile.
func PlotProfileCDF(series []PairSeries, profile, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Throughput CDF - %s", profile)
	p.X.Label.Text = "Throughput (Mbps)"
	p.Y.Label.Text = "Cumulative Probability"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	for i, s := range byProfile(series, profile) {
		tputs := make([]float64, 0, len(s.Samples))
		for _, sample := range s.Samples {
			tputs = append(tputs, sample.Throughput)
		}
		sort.Float64s(tputs)
		pts := make(plotter.XYs, len(tputs))
		for j, v := range tputs {
			pts[j].X = v
			pts[j].Y = float64(j+1) / float64(len(tputs))
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = algorithmColor(s.Algorithm, i)
		p.Add(line)
		p.Legend.Add(s.Algorithm, line)
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// PlotRTTScatter renders average throughput against average RTT for every
// pair, with error bars for throughput variability.
func PlotRTTScatter(series []PairSeries, path string) error {
	p := plot.New()
	p.Title.Text = "Average Throughput vs Average RTT"
	p.X.Label.Text = "Average RTT (ms)"
	p.Y.Label.Text = "Average Throughput (Mbps)"
	p.Add(plotter.NewGrid())

	for i, s := range series {
		tputs := make([]float64, 0, len(s.Samples))
		rtts := make([]float64, 0, len(s.Samples))
		for _, sample := range s.Samples {
			tputs = append(tputs, sample.Throughput)
			rtts = append(rtts, sample.RTT)
		}
		if len(tputs) == 0 {
			continue
		}
		avgT := stat.Mean(tputs, nil)
		stdT := sampleStdDev(tputs)

		pts := plotter.XYs{{X: stat.Mean(rtts, nil), Y: avgT}}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = algorithmColor(s.Algorithm, i)
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("%s (%s)", s.Algorithm, s.Profile.Name), sc)

		yerr := errPoints{XYs: pts, YErrors: plotter.YErrors{{Low: stdT, High: stdT}}}
		bars, err := plotter.NewYErrorBars(yerr)
		if err != nil {
			return err
		}
		bars.LineStyle.Color = algorithmColor(s.Algorithm, i)
		p.Add(bars)
	}
	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// errPoints pairs XY points with Y error ranges for NewYErrorBars.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

func plotProfileLines(series []PairSeries, profile, path, title, yLabel string, points func(PairSeries) plotter.XYs) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	for i, s := range byProfile(series, profile) {
		line, err := plotter.NewLine(points(s))
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = algorithmColor(s.Algorithm, i)
		p.Add(line)
		p.Legend.Add(s.Algorithm, line)
	}
	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}

func throughputXYs(s PairSeries) plotter.XYs {
	pts := make(plotter.XYs, len(s.Samples))
	for i, sample := range s.Samples {
		pts[i].X = sample.Timestamp
		pts[i].Y = sample.Throughput
	}
	return pts
}
