package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"ccbench/internal/config"
	"ccbench/internal/logging"
)

// RunSpec names one experiment and the paths its artifacts go to.
type RunSpec struct {
	Algorithm string
	Profile   config.Profile
	LogPath   string
	CSVPath   string
}

// Runner invokes the external test framework for one experiment. The returned
// exit code is meaningful only when err wraps a process failure.
type Runner interface {
	Run(ctx context.Context, spec RunSpec) (exitCode int, err error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, spec RunSpec) (int, error)

func (f RunnerFunc) Run(ctx context.Context, spec RunSpec) (int, error) {
	return f(ctx, spec)
}

// MahiMahiRunner runs the configured test framework inside an mm-delay /
// mm-link emulation shell. The argv is explicit; the child inherits only the
// configured environment additions.
type MahiMahiRunner struct {
	Runner config.Runner
}

// Argv builds the full emulator + runner command line for one pair.
func (r *MahiMahiRunner) Argv(spec RunSpec) []string {
	argv := []string{
		"mm-delay", fmt.Sprint(spec.Profile.DelayMS),
		"mm-link", spec.Profile.DownlinkTrace, spec.Profile.UplinkTrace,
		"--",
		r.Runner.Command,
	}
	argv = append(argv, r.Runner.Args...)
	argv = append(argv, "--schemes", spec.Algorithm)
	return argv
}

// Run executes one experiment, streaming the child's combined output to the
// spec's log file. On success it collects the newest metrics CSV the runner
// produced into the spec's CSV path.
func (r *MahiMahiRunner) Run(ctx context.Context, spec RunSpec) (int, error) {
	logFile, err := os.Create(spec.LogPath)
	if err != nil {
		return 0, fmt.Errorf("create log file: %w", err)
	}
	defer logFile.Close()

	argv := r.Argv(spec)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Runner.Workdir
	cmd.Env = append(os.Environ(), r.Runner.Env...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), fmt.Errorf("runner exited: %w", err)
		}
		return 0, fmt.Errorf("runner failed to start: %w", err)
	}

	if err := r.collectMetrics(ctx, spec); err != nil {
		// Some schemes produce a log but no metrics CSV; that is a warning,
		// not a run failure.
		logging.FromContext(ctx).Warn("no metrics collected",
			"algorithm", spec.Algorithm, "profile", spec.Profile.Name, "err", err)
	}
	return 0, nil
}

// collectMetrics copies the newest logs/metrics_<algo>_*.csv from the runner
// workdir to the pair's result CSV.
func (r *MahiMahiRunner) collectMetrics(ctx context.Context, spec RunSpec) error {
	pattern := filepath.Join(r.Runner.Workdir, "logs", fmt.Sprintf("metrics_%s_*.csv", spec.Algorithm))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no metrics file matching %s", pattern)
	}
	sort.Slice(matches, func(i, j int) bool {
		return mtime(matches[i]).After(mtime(matches[j]))
	})
	return copyFile(matches[0], spec.CSVPath)
}

func mtime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
