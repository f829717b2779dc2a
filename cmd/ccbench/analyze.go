package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ccbench/internal/analysis"
	"ccbench/internal/bench"
	"ccbench/internal/config"
	"ccbench/internal/logging"
)

var (
	analyzeConfigPath  string
	analyzeSchemaPath  string
	analyzeResultsRoot string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate existing results into summary CSVs and plots",
	Long: "analyze reads the per-pair metric CSVs under results/ and writes RTT and\n" +
		"throughput summaries plus PNG plots under graphs/, without re-running any\n" +
		"experiment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(analyzeConfigPath, analyzeSchemaPath)
		if err != nil {
			return err
		}
		if analyzeResultsRoot != "" {
			cfg.ResultsRoot = analyzeResultsRoot
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, logging.New())

		report, err := analysis.Generate(ctx, cfg, bench.Layout{Root: cfg.ResultsRoot})
		if err != nil {
			return err
		}
		printReport(report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "configs/bench.yaml", "Path to benchmark configuration YAML")
	analyzeCmd.Flags().StringVar(&analyzeSchemaPath, "schema", "schemas/bench.cue", "Path to CUE schema file")
	analyzeCmd.Flags().StringVar(&analyzeResultsRoot, "results-root", "", "Override results root directory")
}
