package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"curv/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive curv session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdin) {
			return errors.New("repl requires an interactive terminal")
		}
		return repl.Run()
	},
}
