package bench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ccbench/internal/config"
)

func testConfig(root string) *config.BenchConfig {
	return &config.BenchConfig{
		Algorithms: []string{"cubic", "vegas"},
		Profiles: []config.Profile{
			{Name: "profile_1", DelayMS: 5, UplinkTrace: "u", DownlinkTrace: "d"},
		},
		ResultsRoot:    root,
		TimeoutSeconds: 60,
	}
}

// collectWriter records every run it sees.
type collectWriter struct {
	runs []Run
	hook func(Run)
}

func (w *collectWriter) WriteRun(r Run) error {
	w.runs = append(w.runs, r)
	if w.hook != nil {
		w.hook(r)
	}
	return nil
}

func okRunner(t *testing.T) Runner {
	return RunnerFunc(func(ctx context.Context, spec RunSpec) (int, error) {
		if err := os.WriteFile(spec.LogPath, []byte("done\n"), 0o644); err != nil {
			t.Fatalf("fake runner write log: %v", err)
		}
		return 0, nil
	})
}

func TestBatchRunsEveryPair(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	w := &collectWriter{}

	summary := NewBatch(cfg, okRunner(t), w).Execute(context.Background())

	if len(summary.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(summary.Runs))
	}
	if summary.FailureCount() != 0 || summary.ExitCode() != 0 {
		t.Fatalf("failures = %d, exit = %d, want 0/0", summary.FailureCount(), summary.ExitCode())
	}
	if len(w.runs) != 2 {
		t.Fatalf("writer saw %d runs, want 2", len(w.runs))
	}
	for _, algo := range []string{"cubic", "vegas"} {
		logPath := filepath.Join(root, "logs", algo, "profile_1", "run.log")
		if _, err := os.Stat(logPath); err != nil {
			t.Errorf("missing log file %s: %v", logPath, err)
		}
	}
	for i, r := range summary.Runs {
		if r.Status != StatusOK {
			t.Errorf("run %d status = %s, want ok", i, r.Status)
		}
		if r.ID == "" {
			t.Errorf("run %d has empty ID", i)
		}
	}
}

func TestBatchContinuesAfterFailure(t *testing.T) {
	cfg := testConfig(t.TempDir())
	runner := RunnerFunc(func(ctx context.Context, spec RunSpec) (int, error) {
		if spec.Algorithm == "cubic" {
			return 1, errors.New("runner exited with code 1")
		}
		return 0, nil
	})

	summary := NewBatch(cfg, runner, nil).Execute(context.Background())

	if len(summary.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(summary.Runs))
	}
	if summary.Runs[0].Status != StatusFailed || summary.Runs[0].ExitCode != 1 {
		t.Errorf("first run = %+v, want failed with exit 1", summary.Runs[0])
	}
	if summary.Runs[1].Status != StatusOK {
		t.Errorf("second run status = %s, want ok", summary.Runs[1].Status)
	}
	if summary.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", summary.ExitCode())
	}
}

func TestBatchRecordsTimeout(t *testing.T) {
	cfg := testConfig(t.TempDir())
	runner := RunnerFunc(func(ctx context.Context, spec RunSpec) (int, error) {
		return 0, context.DeadlineExceeded
	})

	summary := NewBatch(cfg, runner, nil).Execute(context.Background())

	for _, r := range summary.Runs {
		if r.Status != StatusTimeout {
			t.Errorf("run %s/%s status = %s, want timeout", r.Algorithm, r.Profile, r.Status)
		}
		if r.Status == StatusOK {
			t.Errorf("timed-out run reported as ok")
		}
	}
	if summary.FailureCount() != 2 {
		t.Errorf("failures = %d, want 2", summary.FailureCount())
	}
}

func TestBatchRunTimeoutEnforced(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.TimeoutSeconds = 1

	runner := RunnerFunc(func(ctx context.Context, spec RunSpec) (int, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("run context has no deadline")
		}
		// Simulate a runner that sleeps past the deadline.
		<-ctx.Done()
		return 0, ctx.Err()
	})

	summary := NewBatch(cfg, runner, nil).Execute(context.Background())
	if summary.Runs[0].Status != StatusTimeout {
		t.Fatalf("status = %s, want timeout", summary.Runs[0].Status)
	}
}

func TestBatchCancellationStopsLaunching(t *testing.T) {
	cfg := testConfig(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())

	w := &collectWriter{hook: func(Run) { cancel() }}
	summary := NewBatch(cfg, okRunner(t), w).Execute(ctx)

	if !summary.Canceled {
		t.Fatal("summary not marked canceled")
	}
	if len(summary.Runs) != 1 {
		t.Fatalf("got %d runs after cancel, want 1", len(summary.Runs))
	}
}

func TestBatchRecordsSetupFailure(t *testing.T) {
	// Results root is a regular file, so directory creation must fail.
	root := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(root, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker file: %v", err)
	}
	cfg := testConfig(root)

	called := false
	runner := RunnerFunc(func(ctx context.Context, spec RunSpec) (int, error) {
		called = true
		return 0, nil
	})

	summary := NewBatch(cfg, runner, nil).Execute(context.Background())

	if called {
		t.Error("runner invoked despite setup failure")
	}
	if len(summary.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(summary.Runs))
	}
	for _, r := range summary.Runs {
		if r.Status != StatusFailed || r.Error == "" {
			t.Errorf("run %s = %+v, want failed with error", r.Algorithm, r)
		}
	}
}
