package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"ccbench/internal/analysis"
	"ccbench/internal/bench"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	okCellStyle  = cellStyle.Foreground(lipgloss.Color("42"))
	badCellStyle = cellStyle.Foreground(lipgloss.Color("196"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// printSummary renders the per-run outcome table and a one-line verdict.
func printSummary(summary *bench.Summary) {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			if col == 2 {
				if summary.Runs[row].Status == bench.StatusOK {
					return okCellStyle
				}
				return badCellStyle
			}
			return cellStyle
		}).
		Headers("ALGORITHM", "PROFILE", "STATUS", "DURATION", "ARTIFACT")

	for _, r := range summary.Runs {
		artifact := r.CSVPath
		if artifact == "" {
			artifact = r.LogPath
		}
		t.Row(r.Algorithm, r.Profile, string(r.Status), r.Duration.Round(100*time.Millisecond).String(), artifact)
	}
	fmt.Println(t)

	verdict := fmt.Sprintf("%d/%d runs ok", len(summary.Runs)-summary.FailureCount(), len(summary.Runs))
	if summary.Canceled {
		verdict += " (batch canceled early)"
	}
	fmt.Println(verdict)
}

// printReport renders the analysis summaries to stdout.
func printReport(report *analysis.Report) {
	if len(report.RTT) > 0 {
		t := newReportTable("ALGORITHM", "PROFILE", "AVG RTT", "MEDIAN", "P95", "JITTER")
		for _, r := range report.RTT {
			t.Row(r.Algorithm, r.Profile,
				fmt.Sprintf("%.2f ms", r.MeanMS),
				fmt.Sprintf("%.2f ms", r.MedianMS),
				fmt.Sprintf("%.2f ms", r.P95MS),
				fmt.Sprintf("%.2f ms", r.JitterMS))
		}
		fmt.Println("RTT summary:")
		fmt.Println(t)
	}
	if len(report.Comparison) > 0 {
		t := newReportTable("PROFILE", "ALGORITHM", "AVG TPUT", "P90 TPUT", "AVG RTT", "AVG LOSS")
		for _, c := range report.Comparison {
			t.Row(c.Profile, c.Algorithm,
				fmt.Sprintf("%.2f Mbps", c.AvgThroughput),
				fmt.Sprintf("%.2f Mbps", c.P90Throughput),
				fmt.Sprintf("%.2f ms", c.AvgRTT),
				fmt.Sprintf("%.2f%%", c.AvgLossPct))
		}
		fmt.Println("Algorithm comparison:")
		fmt.Println(t)
	}
	fmt.Printf("%d graphs written\n", len(report.Graphs))
}

func newReportTable(headers ...string) *ltable.Table {
	return ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}
