package executors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/ShayCichocki/baton/internal/coordinate"
	"github.com/ShayCichocki/baton/pkg/models"
)

// AnthropicConfig configures the live executor.
type AnthropicConfig struct {
	// Model is the Claude model to use. Empty selects a default.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY.
	APIKey string
	// UseAWSBedrock routes requests through AWS Bedrock instead of the
	// direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
	// MaxTokens caps the response size. Defaults to 4096.
	MaxTokens int64
}

// Anthropic fulfills tasks by prompting Claude. One completion per
// task; dependency outputs are folded into the prompt as context.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropic creates the live executor.
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	if cfg.UseAWSBedrock {
		model = bedrockModel(model)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// bedrockModel converts a model name to the cross-region Bedrock
// inference profile format (us.anthropic.{model}-v1:0).
func bedrockModel(model anthropic.Model) anthropic.Model {
	if strings.HasPrefix(string(model), "us.anthropic.") {
		return model
	}
	known := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:   "us.anthropic.claude-opus-4-1-20250805-v1:0",
	}
	if b, ok := known[model]; ok {
		return anthropic.Model(b)
	}
	return model
}

// rolePrompts gives Claude a role per task type.
var rolePrompts = map[models.TaskType]string{
	models.TaskTypeCodeGeneration:          "You are a senior engineer. Produce the requested code, complete and runnable.",
	models.TaskTypeCodeReview:              "You are a meticulous code reviewer. Point out defects, risks, and concrete fixes.",
	models.TaskTypeDocumentation:           "You are a technical writer. Produce clear, accurate documentation.",
	models.TaskTypeTesting:                 "You are a test engineer. Produce thorough tests for the described work.",
	models.TaskTypeDebugging:               "You are a debugging specialist. Diagnose the problem and propose a fix.",
	models.TaskTypeRefactoring:             "You are a refactoring specialist. Improve structure without changing behavior.",
	models.TaskTypeComplianceCheck:         "You are a compliance analyst. Assess the work against the stated policies.",
	models.TaskTypeSecurityAudit:           "You are a security auditor. Identify vulnerabilities and their severity.",
	models.TaskTypePerformanceOptimization: "You are a performance engineer. Find and remove bottlenecks.",
	models.TaskTypeDeployment:              "You are a release engineer. Produce a deployment procedure for the work.",
}

// Execute prompts Claude once for the task.
func (a *Anthropic) Execute(ctx context.Context, task *models.Task, rc coordinate.RunContext) (coordinate.Output, error) {
	system := rolePrompts[task.Type]
	if system == "" {
		system = "You are a capable engineer. Complete the requested task."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s\n", task.Description)
	for _, dep := range task.Dependencies {
		if v, ok := rc.DependencyOutput(dep); ok {
			fmt.Fprintf(&sb, "\nOutput of prerequisite %s:\n%v\n", dep, v)
		}
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(sb.String())),
		},
	})
	if err != nil {
		return coordinate.Output{}, classify(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}

	// A truncated response is still usable but less trustworthy.
	confidence := 0.9
	if resp.StopReason == anthropic.StopReasonMaxTokens {
		confidence = 0.5
	}

	return coordinate.Output{
		Value:      text.String(),
		Confidence: confidence,
	}, nil
}

// classify maps SDK errors onto the coordinator's retry taxonomy.
// Timeouts, rate limits and server errors are worth retrying; anything
// else (bad request, auth) will not improve on its own.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return coordinate.Transient(err)
	}
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == 408, apierr.StatusCode == 429, apierr.StatusCode >= 500:
			return coordinate.Transient(err)
		default:
			return coordinate.Fatal(err)
		}
	}
	// Network-level failures come back as plain errors; retry them.
	return coordinate.Transient(err)
}
