package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"ccbench/internal/config"
	"ccbench/internal/logging"
)

// Batch drives one experiment per (algorithm, profile) pair. Runs execute
// strictly one at a time: the emulator assumes exclusive control of the local
// network namespace, so the slot channel is held for the whole run.
type Batch struct {
	cfg    *config.BenchConfig
	layout Layout
	runner Runner
	writer RunWriter
	slot   chan struct{}
	now    func() time.Time
}

// NewBatch builds a batch over cfg's profiles and algorithms.
// writer may be nil; completed runs are then only kept in the summary.
func NewBatch(cfg *config.BenchConfig, runner Runner, writer RunWriter) *Batch {
	b := &Batch{
		cfg:    cfg,
		layout: Layout{Root: cfg.ResultsRoot},
		runner: runner,
		writer: writer,
		slot:   make(chan struct{}, 1),
		now:    time.Now,
	}
	b.slot <- struct{}{}
	return b
}

// Layout exposes the artifact layout the batch writes under.
func (b *Batch) Layout() Layout { return b.layout }

// Execute runs every pair in order (profiles outer, algorithms inner) and
// returns a summary of all completed runs. Cancelling ctx stops launching new
// runs; the in-flight run finishes or times out on its own clock.
func (b *Batch) Execute(ctx context.Context) *Summary {
	log := logging.FromContext(ctx)
	summary := &Summary{}

	for _, profile := range b.cfg.Profiles {
		log.Info("running profile", "profile", profile.Name, "description", profile.Description, "delay_ms", profile.DelayMS)
		for _, algo := range b.cfg.Algorithms {
			if ctx.Err() != nil {
				log.Warn("batch canceled, not launching further runs",
					"completed", len(summary.Runs))
				summary.Canceled = true
				return summary
			}
			run := b.runOne(ctx, algo, profile)
			summary.Runs = append(summary.Runs, run)
			if b.writer != nil {
				if err := b.writer.WriteRun(run); err != nil {
					log.Error("run record write failed", "run_id", run.ID, "err", err)
				}
			}
		}
	}
	return summary
}

func (b *Batch) runOne(ctx context.Context, algo string, profile config.Profile) Run {
	log := logging.FromContext(ctx)

	<-b.slot
	defer func() { b.slot <- struct{}{} }()

	run := Run{
		ID:        uuid.NewString(),
		Algorithm: algo,
		Profile:   profile.Name,
		LogPath:   b.layout.LogFile(algo, profile.Name),
		StartedAt: b.now(),
	}
	log.Info("starting run", "run_id", run.ID, "algorithm", algo, "profile", profile.Name)

	if err := b.prepareDirs(algo, profile.Name); err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
		log.Error("run setup failed", "run_id", run.ID, "err", err)
		return run
	}

	spec := RunSpec{
		Algorithm: algo,
		Profile:   profile,
		LogPath:   run.LogPath,
		CSVPath:   b.layout.ResultCSV(algo, profile.Name),
	}

	// Detached from batch cancellation: an in-flight run always completes or
	// times out, never half-stops with the emulator still holding the
	// namespace.
	runCtx := context.WithoutCancel(ctx)
	var cancel context.CancelFunc
	if timeout := b.cfg.Timeout(); timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}

	exitCode, err := b.runner.Run(runCtx, spec)
	run.Duration = b.now().Sub(run.StartedAt)
	run.ExitCode = exitCode

	switch {
	case err == nil:
		run.Status = StatusOK
		run.CSVPath = existingPath(spec.CSVPath)
		log.Info("run succeeded", "run_id", run.ID, "duration", run.Duration)
	case errors.Is(err, context.DeadlineExceeded):
		run.Status = StatusTimeout
		run.Error = fmt.Sprintf("timed out after %s", b.cfg.Timeout())
		log.Error("run timed out", "run_id", run.ID, "timeout", b.cfg.Timeout())
	default:
		run.Status = StatusFailed
		run.Error = err.Error()
		log.Error("run failed", "run_id", run.ID, "exit_code", exitCode, "err", err)
	}
	return run
}

func (b *Batch) prepareDirs(algo, profile string) error {
	if err := os.MkdirAll(b.layout.LogDir(algo, profile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	if err := os.MkdirAll(b.layout.ResultDir(profile), 0o755); err != nil {
		return fmt.Errorf("create result dir: %w", err)
	}
	return nil
}

// existingPath returns path if a file exists there, else "". A run can
// succeed without a metrics CSV when the runner produced none.
func existingPath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
