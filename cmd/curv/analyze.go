package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"curv/internal/driver"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] path",
	Short: "Analyze a curv file or directory",
	Long:  `Analyze resolves bindings and computes initialization order without evaluating`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("jobs", 0, "parallel workers for directory analysis (0 = GOMAXPROCS)")
	analyzeCmd.Flags().String("export", "", "write msgpack export payloads into this directory")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	exportDir, _ := cmd.Flags().GetString("export")

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	var results []*driver.Result
	if info.IsDir() {
		jobs, _ := cmd.Flags().GetInt("jobs")
		results, err = driver.AnalyzeDir(cmd.Context(), path, maxDiagnostics(cmd), jobs)
		if err != nil {
			return err
		}
	} else {
		res, err := driver.AnalyzeFile(path, maxDiagnostics(cmd))
		if err != nil {
			return err
		}
		results = []*driver.Result{res}
	}

	failed := 0
	for _, res := range results {
		if reportDiagnostics(cmd, res) {
			failed++
			continue
		}
		if !quiet(cmd) {
			bindings := driver.BuildExport(res).Bindings
			fmt.Printf("%s: %d bindings (%s)\n",
				res.Path, len(bindings), strings.Join(bindings, ", "))
		}
		if exportDir != "" {
			out := filepath.Join(exportDir, exportName(res.Path))
			if err := driver.WriteExport(out, driver.BuildExport(res)); err != nil {
				return fmt.Errorf("export %s: %w", res.Path, err)
			}
		}
		printTimings(cmd, res.Timing)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed analysis", failed, len(results))
	}
	return nil
}

func exportName(srcPath string) string {
	base := filepath.Base(srcPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".mp"
}
