package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ccbench",
	Short: "Congestion-control benchmark driver",
	Long: "ccbench drives a Pantheon-style congestion-control test framework under\n" +
		"MahiMahi network emulation, once per (algorithm, network profile) pair,\n" +
		"then aggregates the metric logs into summary tables and plots.",
}

// Execute runs the root command. The process exit code of `run` is the
// number of failed runs, so the batch result is scriptable.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// exitCode is set by subcommands that finish without a hard error but still
// need a non-zero exit (failed runs).
var exitCode int

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(analyzeCmd)
}
