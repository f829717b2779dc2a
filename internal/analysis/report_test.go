package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ccbench/internal/bench"
	"ccbench/internal/config"
	"ccbench/internal/metrics"
)

func reportConfig(root string) *config.BenchConfig {
	return &config.BenchConfig{
		Algorithms: []string{"cubic", "vegas"},
		Profiles: []config.Profile{
			{Name: "profile_1", DelayMS: 5, UplinkTrace: "u", DownlinkTrace: "d"},
		},
		ResultsRoot: root,
	}
}

func writeSamples(t *testing.T, layout bench.Layout, algo, profile string) {
	t.Helper()
	if err := os.MkdirAll(layout.ResultDir(profile), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	samples := []metrics.Sample{
		{Timestamp: 0, Throughput: 10, RTT: 40, LossRate: 0.01},
		{Timestamp: 1, Throughput: 12, RTT: 45, LossRate: 0.02},
		{Timestamp: 2, Throughput: 11, RTT: 43, LossRate: 0.0},
	}
	if err := metrics.WriteFile(layout.ResultCSV(algo, profile), samples); err != nil {
		t.Fatalf("write samples: %v", err)
	}
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	cfg := reportConfig(root)
	layout := bench.Layout{Root: root}
	writeSamples(t, layout, "cubic", "profile_1")
	writeSamples(t, layout, "vegas", "profile_1")

	report, err := Generate(context.Background(), cfg, layout)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(report.RTT) != 2 || len(report.Comparison) != 2 {
		t.Fatalf("summaries = %d/%d, want 2/2", len(report.RTT), len(report.Comparison))
	}

	wantFiles := []string{
		layout.PairGraph("cubic", "profile_1"),
		layout.PairGraph("vegas", "profile_1"),
		filepath.Join(layout.GraphDir(), "throughput_profile_1.png"),
		filepath.Join(layout.GraphDir(), "loss_profile_1.png"),
		filepath.Join(layout.GraphDir(), "throughput_cdf_profile_1.png"),
		filepath.Join(layout.GraphDir(), "rtt_vs_throughput.png"),
		filepath.Join(layout.GraphDir(), "rtt_summary.csv"),
		filepath.Join(layout.GraphDir(), "algorithm_comparison.csv"),
	}
	for _, path := range wantFiles {
		fi, err := os.Stat(path)
		if err != nil {
			t.Errorf("missing artifact %s: %v", path, err)
			continue
		}
		if fi.Size() == 0 {
			t.Errorf("artifact %s is empty", path)
		}
	}
}

func TestGeneratePartialResults(t *testing.T) {
	// Only one of two pairs has data; analysis covers what completed.
	root := t.TempDir()
	cfg := reportConfig(root)
	layout := bench.Layout{Root: root}
	writeSamples(t, layout, "cubic", "profile_1")

	report, err := Generate(context.Background(), cfg, layout)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(report.Comparison) != 1 {
		t.Fatalf("comparison rows = %d, want 1", len(report.Comparison))
	}
}

func TestGenerateNoData(t *testing.T) {
	root := t.TempDir()
	if _, err := Generate(context.Background(), reportConfig(root), bench.Layout{Root: root}); err == nil {
		t.Fatal("Generate succeeded with no result CSVs")
	}
}
