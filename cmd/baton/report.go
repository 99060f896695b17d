package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/baton/internal/config"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report <plan-id>",
	Short: "Show the persisted execution report for a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		e, err := newEngine(cfg, db, cfg.Defaults.Budget, "local", false, 0)
		if err != nil {
			return err
		}

		report, err := e.Report(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(report.Results) == 0 {
			fmt.Println("no results recorded; run the plan first")
			return nil
		}

		if reportOutput == "yaml" {
			out, err := yaml.Marshal(report)
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			fmt.Print(string(out))
			return nil
		}
		fmt.Print(renderReport(report))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOutput, "output", "text", "Output format: text or yaml")
}
