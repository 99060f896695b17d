package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/baton/internal/config"
	"github.com/ShayCichocki/baton/pkg/models"
)

var (
	planText      string
	planCodeFile  string
	planImages    []string
	planDocuments []string
	planPolicies  []string
	planLevel     string
	planMode      string
	planOwner     string
	planOutput    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Create an execution plan from a multimodal request",
	Long: `Decompose a request into typed tasks, resolve their dependencies into
an execution order, and persist the plan.

The request can mix modalities: free text, a code file, image and
document references, and compliance policy identifiers. The plan is
printed but not executed; use 'baton run <plan-id>' to execute it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := models.ComplianceLevel(strings.ToUpper(planLevel))
		if level == "" {
			level = models.ComplianceLevel(cfg.Defaults.ComplianceLevel)
		}
		if !level.Valid() {
			return fmt.Errorf("invalid compliance level %q (BASIC, ENTERPRISE, GOVERNMENT)", planLevel)
		}
		mode := models.Mode(strings.ToUpper(planMode))
		if mode == "" {
			mode = models.Mode(cfg.Defaults.Mode)
		}
		if !mode.Valid() {
			return fmt.Errorf("invalid mode %q (AUTO, GUIDED, MANUAL)", planMode)
		}

		input := models.MultimodalInput{
			Text:               planText,
			Images:             planImages,
			Documents:          planDocuments,
			CompliancePolicies: planPolicies,
		}
		if planCodeFile != "" {
			code, err := os.ReadFile(planCodeFile)
			if err != nil {
				return fmt.Errorf("reading code file: %w", err)
			}
			input.Code = string(code)
		}
		if len(input.Modalities()) == 0 {
			return fmt.Errorf("empty request: provide --text, --code-file, --image, or --document")
		}

		db, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		e, err := newEngine(cfg, db, cfg.Defaults.Budget, planOwner, false, 0)
		if err != nil {
			return err
		}

		plan, err := e.CreatePlan(cmd.Context(), planOwner, input, level, mode)
		if err != nil {
			return err
		}

		if planOutput == "yaml" {
			out, err := yaml.Marshal(plan)
			if err != nil {
				return fmt.Errorf("encoding plan: %w", err)
			}
			fmt.Print(string(out))
			return nil
		}
		fmt.Print(renderPlan(plan, e.EstimatedDuration(plan)))
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planText, "text", "", "Natural-language request")
	planCmd.Flags().StringVar(&planCodeFile, "code-file", "", "Path to a source file to include")
	planCmd.Flags().StringArrayVar(&planImages, "image", nil, "Image reference (repeatable)")
	planCmd.Flags().StringArrayVar(&planDocuments, "document", nil, "Document reference (repeatable)")
	planCmd.Flags().StringArrayVar(&planPolicies, "policy", nil, "Compliance policy identifier (repeatable)")
	planCmd.Flags().StringVar(&planLevel, "level", "", "Compliance level: BASIC, ENTERPRISE, or GOVERNMENT")
	planCmd.Flags().StringVar(&planMode, "mode", "", "Orchestration mode: AUTO, GUIDED, or MANUAL")
	planCmd.Flags().StringVar(&planOwner, "owner", "local", "Owner id the plan is budgeted against")
	planCmd.Flags().StringVar(&planOutput, "output", "text", "Output format: text or yaml")
}
