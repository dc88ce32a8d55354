package main

import (
	"os"

	"github.com/spf13/cobra"

	"curv/internal/diagfmt"
	"curv/internal/driver"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] file.curv",
	Short: "Tokenize a curv source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	res, err := driver.Tokenize(args[0], maxDiagnostics(cmd))
	if err != nil {
		return err
	}
	if res.Bag.Len() > 0 {
		res.Bag.Sort()
		diagfmt.Pretty(os.Stderr, res.Bag, res.Files, diagfmt.PrettyOpts{
			Color: useColor(cmd, os.Stderr),
		})
	}
	return diagfmt.Tokens(os.Stdout, res.Tokens, res.Files)
}
