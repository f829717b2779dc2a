package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ccbench/internal/analysis"
	"ccbench/internal/bench"
	"ccbench/internal/config"
	"ccbench/internal/logging"
	"ccbench/internal/tui"
)

var (
	runConfigPath    string
	runSchemaPath    string
	runResultsRoot   string
	runTimeout       time.Duration
	runTUI           bool
	runLogRuns       bool
	runAnalyzeAfter  bool
	runSkipPreflight bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full batch of congestion-control experiments",
	Long: "run invokes the external test runner once per (algorithm, profile) pair,\n" +
		"records each run's outcome, and prints a summary table. The exit code is\n" +
		"the number of failed runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runConfigPath, runSchemaPath)
		if err != nil {
			return err
		}
		if runResultsRoot != "" {
			cfg.ResultsRoot = runResultsRoot
		}
		if cmd.Flags().Changed("timeout") {
			cfg.TimeoutSeconds = int(runTimeout.Seconds())
		}

		log := logging.New()
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, log)

		runner := &bench.MahiMahiRunner{Runner: cfg.Runner}
		if !runSkipPreflight {
			pf := bench.Preflight{Binaries: []string{"mm-delay", "mm-link", cfg.Runner.Command}}
			if err := pf.Check(); err != nil {
				return err
			}
		}

		writer, cleanup, session, err := newRunWriters(cfg, log, stop)
		if err != nil {
			return err
		}
		defer cleanup()

		batch := bench.NewBatch(cfg, runner, writer)

		var summary *bench.Summary
		if session != nil {
			done := make(chan *bench.Summary, 1)
			go func() {
				done <- batch.Execute(ctx)
				session.Done()
			}()
			if err := session.Wait(); err != nil {
				return err
			}
			// The TUI quits before Execute returns when the user cancels;
			// the in-flight run still finishes and lands in the summary.
			summary = <-done
		} else {
			summary = batch.Execute(ctx)
		}

		printSummary(summary)

		if runAnalyzeAfter {
			report, err := analysis.Generate(ctx, cfg, batch.Layout())
			if err != nil {
				log.Warn("analysis skipped", "err", err)
			} else {
				printReport(report)
			}
		}

		exitCode = summary.ExitCode()
		return nil
	},
}

// newRunWriters assembles the run-record sinks: stdout JSONL or TUI, an
// optional runs.jsonl file, and the GreptimeDB sample sink when configured.
func newRunWriters(cfg *config.BenchConfig, log *slog.Logger, cancel func()) (bench.RunWriter, func(), *tui.Session, error) {
	cleanup := func() {}
	var writers []bench.RunWriter
	var session *tui.Session

	useTUI := runTUI && term.IsTerminal(int(os.Stdout.Fd()))
	if useTUI {
		var pairs []tui.Pair
		for _, p := range cfg.Profiles {
			for _, a := range cfg.Algorithms {
				pairs = append(pairs, tui.Pair{Algorithm: a, Profile: p.Name})
			}
		}
		session = tui.NewSession(pairs, cancel)
		writers = append(writers, session.Writer())
	} else {
		writers = append(writers, &bench.StdoutWriter{})
	}

	if runLogRuns {
		layout := bench.Layout{Root: cfg.ResultsRoot}
		if err := os.MkdirAll(cfg.ResultsRoot, 0o755); err != nil {
			return nil, nil, nil, err
		}
		fw, err := bench.NewFileWriter(layout.RunsLog())
		if err != nil {
			return nil, nil, nil, err
		}
		writers = append(writers, fw)
		cleanup = func() { fw.Close() }
	}

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		db := os.Getenv("GREPTIMEDB_DATABASE")
		if db == "" {
			db = "public"
		}
		gw, err := bench.NewGreptimeWriter(endpoint, db, os.Getenv("GREPTIMEDB_TABLE"), log)
		if err != nil {
			log.Warn("greptime sink disabled", "err", err)
		} else {
			writers = append(writers, gw)
		}
	}

	if len(writers) == 1 {
		return writers[0], cleanup, session, nil
	}
	return bench.NewMultiWriter(writers...), cleanup, session, nil
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "configs/bench.yaml", "Path to benchmark configuration YAML")
	runCmd.Flags().StringVar(&runSchemaPath, "schema", "schemas/bench.cue", "Path to CUE schema file")
	runCmd.Flags().StringVar(&runResultsRoot, "results-root", "", "Override results root directory")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "Per-run wall-clock timeout")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show live progress view (requires a terminal)")
	runCmd.Flags().BoolVar(&runLogRuns, "log-runs", false, "Append run records to runs.jsonl under the results root")
	runCmd.Flags().BoolVar(&runAnalyzeAfter, "analyze", false, "Generate summary CSVs and plots after the batch")
	runCmd.Flags().BoolVar(&runSkipPreflight, "skip-preflight", false, "Skip emulator and IP-forwarding checks")
}
