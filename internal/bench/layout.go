package bench

import (
	"fmt"
	"path/filepath"
)

// Layout maps (algorithm, profile) pairs to artifact paths under a results
// root. Paths are a pure function of the pair, so no two runs can ever share
// an output location.
type Layout struct {
	Root string
}

// LogDir returns the directory holding raw logs for one pair.
func (l Layout) LogDir(algorithm, profile string) string {
	return filepath.Join(l.Root, "logs", algorithm, profile)
}

// LogFile returns the path the external runner's combined output is written to.
func (l Layout) LogFile(algorithm, profile string) string {
	return filepath.Join(l.LogDir(algorithm, profile), "run.log")
}

// ResultDir returns the per-profile directory holding metric CSVs.
func (l Layout) ResultDir(profile string) string {
	return filepath.Join(l.Root, "results", profile)
}

// ResultCSV returns the path of the collected metric samples for one pair.
func (l Layout) ResultCSV(algorithm, profile string) string {
	return filepath.Join(l.ResultDir(profile), algorithm+".csv")
}

// GraphDir returns the directory holding plots and summary CSVs.
func (l Layout) GraphDir() string {
	return filepath.Join(l.Root, "graphs")
}

// PairGraph returns the path of the per-pair throughput plot.
func (l Layout) PairGraph(algorithm, profile string) string {
	return filepath.Join(l.GraphDir(), fmt.Sprintf("%s_%s.png", algorithm, profile))
}

// RunsLog returns the path of the JSONL record of completed runs.
func (l Layout) RunsLog() string {
	return filepath.Join(l.Root, "runs.jsonl")
}
