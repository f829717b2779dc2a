package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"ccbench/internal/bench"
	"ccbench/internal/config"
	"ccbench/internal/logging"
)

// Report holds everything one analysis pass produced.
type Report struct {
	RTT        []RTTSummary
	Comparison []Comparison
	Graphs     []string
}

// Generate collects all result CSVs, writes summary CSVs and plots under
// graphs/, and returns the summaries for display. It fails only when no data
// is available at all.
func Generate(ctx context.Context, cfg *config.BenchConfig, layout bench.Layout) (*Report, error) {
	log := logging.FromContext(ctx)

	series := Collect(ctx, cfg, layout)
	if len(series) == 0 {
		return nil, fmt.Errorf("no result CSVs under %s; run experiments first", layout.ResultDir(""))
	}
	if err := os.MkdirAll(layout.GraphDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create graph dir: %w", err)
	}

	report := &Report{
		RTT:        SummarizeRTT(series),
		Comparison: Compare(series),
	}

	for _, s := range series {
		path := layout.PairGraph(s.Algorithm, s.Profile.Name)
		if err := PlotPairThroughput(s, path); err != nil {
			return nil, fmt.Errorf("plot %s: %w", path, err)
		}
		report.Graphs = append(report.Graphs, path)
	}

	for _, profile := range cfg.Profiles {
		if len(byProfile(series, profile.Name)) == 0 {
			continue
		}
		plots := []struct {
			path string
			fn   func([]PairSeries, string, string) error
		}{
			{filepath.Join(layout.GraphDir(), "throughput_"+profile.Name+".png"), PlotProfileThroughput},
			{filepath.Join(layout.GraphDir(), "loss_"+profile.Name+".png"), PlotProfileLoss},
			{filepath.Join(layout.GraphDir(), "throughput_cdf_"+profile.Name+".png"), PlotProfileCDF},
		}
		for _, pl := range plots {
			if err := pl.fn(series, profile.Name, pl.path); err != nil {
				return nil, fmt.Errorf("plot %s: %w", pl.path, err)
			}
			report.Graphs = append(report.Graphs, pl.path)
		}
	}

	scatterPath := filepath.Join(layout.GraphDir(), "rtt_vs_throughput.png")
	if err := PlotRTTScatter(series, scatterPath); err != nil {
		return nil, fmt.Errorf("plot %s: %w", scatterPath, err)
	}
	report.Graphs = append(report.Graphs, scatterPath)

	if len(report.RTT) > 0 {
		if err := writeCSV(filepath.Join(layout.GraphDir(), "rtt_summary.csv"), &report.RTT); err != nil {
			return nil, err
		}
	}
	if len(report.Comparison) > 0 {
		if err := writeCSV(filepath.Join(layout.GraphDir(), "algorithm_comparison.csv"), &report.Comparison); err != nil {
			return nil, err
		}
	}

	log.Info("analysis complete", "pairs", len(series), "graphs", len(report.Graphs))
	return report, nil
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
