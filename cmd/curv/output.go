package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"curv/internal/diagfmt"
	"curv/internal/driver"
	"curv/internal/observ"
)

// reportDiagnostics prints a result's diagnostics to stderr and
// reports whether the result carries errors.
func reportDiagnostics(cmd *cobra.Command, res *driver.Result) bool {
	if res.Bag.Len() == 0 {
		return false
	}
	res.Bag.Sort()
	diagfmt.Pretty(os.Stderr, res.Bag, res.Files, diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		ShowNotes: true,
	})
	return res.Bag.HasErrors()
}

func printTimings(cmd *cobra.Command, report observ.Report) {
	show, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if !show {
		return
	}
	fmt.Fprintln(os.Stderr, "timings:")
	for _, p := range report.Phases {
		line := fmt.Sprintf("  %-12s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		fmt.Fprintln(os.Stderr, line)
	}
	fmt.Fprintf(os.Stderr, "  %-12s %7.2f ms\n", "total", report.TotalMS)
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}
