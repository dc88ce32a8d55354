package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"curv/internal/driver"
	"curv/internal/project"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.curv]",
	Short: "Evaluate a curv module and print its bindings",
	Long: `Run analyzes and evaluates a module. Without an argument the entry
point comes from the [run].main field of the nearest curv.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	path, err := resolveRunTarget(args)
	if err != nil {
		return err
	}
	m, res, err := driver.EvalFile(path, maxDiagnostics(cmd))
	if err != nil {
		return err
	}
	if reportDiagnostics(cmd, res) || m == nil {
		return fmt.Errorf("%s: evaluation failed", path)
	}
	if !quiet(cmd) {
		for i, atom := range m.Dict.Atoms() {
			fmt.Printf("%s = %s\n", res.Names.MustLookup(atom), m.Fields[i])
		}
	}
	printTimings(cmd, res.Timing)
	return nil
}

func resolveRunTarget(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	manifest, ok, err := project.Load(".")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("no curv.toml found\nplease specify the module explicitly, e.g.:\n  curv run path/to/module.curv")
	}
	return manifest.MainPath()
}
