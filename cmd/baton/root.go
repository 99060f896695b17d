package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/baton/internal/coordinate"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "baton",
	Short: "Multimodal task orchestration engine",
	Long: `Baton turns multimodal requests (text, code, images, documents) into
dependency-ordered task plans and executes them under budget and
compliance constraints.

Core capabilities:
- Decomposes requests into typed tasks (code generation, testing, audits, ...)
- Resolves dependencies into a cycle-free execution order
- Gates every task on budget before dispatch
- Retries transient failures with exponential backoff
- Aggregates per-task results into a compliance-aware report`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			coordinate.SetDebug(true)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable verbose execution logging")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
