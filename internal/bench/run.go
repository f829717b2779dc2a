package bench

import "time"

// Status classifies the outcome of one experiment run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

// Run records one invocation of the external test runner for an
// (algorithm, profile) pair. Immutable once recorded.
type Run struct {
	ID        string        `json:"id"`
	Algorithm string        `json:"algorithm"`
	Profile   string        `json:"profile"`
	Status    Status        `json:"status"`
	ExitCode  int           `json:"exit_code"`
	LogPath   string        `json:"log_path"`
	CSVPath   string        `json:"csv_path,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Summary aggregates all runs of one batch.
type Summary struct {
	Runs     []Run
	Canceled bool
}

// FailureCount returns the number of runs that did not succeed.
func (s *Summary) FailureCount() int {
	n := 0
	for _, r := range s.Runs {
		if r.Status != StatusOK {
			n++
		}
	}
	return n
}

// ExitCode maps the failure count onto a process exit code, capped at 125 to
// stay below the shell's reserved range.
func (s *Summary) ExitCode() int {
	n := s.FailureCount()
	if n > 125 {
		return 125
	}
	return n
}
