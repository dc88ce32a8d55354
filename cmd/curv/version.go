package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curv/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the curv version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("curv", version.Version)
		if version.GitCommit != "" {
			fmt.Println("commit:", version.GitCommit)
		}
		if version.BuildDate != "" {
			fmt.Println("built:", version.BuildDate)
		}
	},
}
