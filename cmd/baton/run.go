package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/baton/internal/config"
	"github.com/ShayCichocki/baton/internal/coordinate"
	"github.com/ShayCichocki/baton/internal/engine"
)

var (
	runTasks       []string
	runBudget      float64
	runLive        bool
	runConcurrency int
	runOrder       []string
	runOutput      string
)

var runCmd = &cobra.Command{
	Use:   "run <plan-id>",
	Short: "Execute a persisted plan",
	Long: `Execute the tasks of a previously created plan against a budget.

By default tasks are fulfilled by a deterministic dry-run stub; pass
--live to dispatch them to the Anthropic API. Execution stops charging
an owner the moment their budget cannot cover a task's estimate; that
task and everything depending on it are recorded as failed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID := args[0]

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		budget := runBudget
		if budget <= 0 {
			budget = cfg.Defaults.Budget
		}

		db, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		plan, err := db.Load(cmd.Context(), planID)
		if err != nil {
			return err
		}

		e, err := newEngine(cfg, db, budget, plan.OwnerID, runLive, runConcurrency)
		if err != nil {
			return err
		}

		mode := "dry-run"
		if runLive {
			mode = "live"
		}
		printStatus("▸", fmt.Sprintf("Executing plan %s (%s, budget %.1f)", planID, mode, budget), color.FgCyan)

		report, err := e.ExecutePlan(cmd.Context(), planID, engine.ExecuteOptions{
			Selected: runTasks,
			Hint:     coordinate.OrderHint(runOrder),
		})
		if err != nil {
			return err
		}

		if runOutput == "yaml" {
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

// printStatus prints a colored status line.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	c.Printf("%s ", symbol)
	fmt.Println(message)
}

func init() {
	runCmd.Flags().StringArrayVar(&runTasks, "task", nil, "Execute only this task id (repeatable)")
	runCmd.Flags().Float64Var(&runBudget, "budget", 0, "Credit budget for this run (default from config)")
	runCmd.Flags().BoolVar(&runLive, "live", false, "Dispatch tasks to the Anthropic API")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "Max tasks in flight (default from config)")
	runCmd.Flags().StringArrayVar(&runOrder, "order", nil, "Proposed execution order by task id (repeatable; ignored if it breaks dependencies)")
	runCmd.Flags().StringVar(&runOutput, "output", "text", "Output format: text or yaml")
}
