// Package decompose converts a multimodal request into typed task
// descriptors. Classification is deterministic keyword matching; no
// network calls are made.
package decompose

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ShayCichocki/baton/internal/registry"
	"github.com/ShayCichocki/baton/pkg/models"
)

// keywordRule maps trigger keywords to a task type. Rules are evaluated
// in order and each type yields at most one task per request.
type keywordRule struct {
	taskType models.TaskType
	keywords []string
}

// classificationRules is the fixed keyword table, ordered by task type.
// Matching is case-insensitive over the request's text and code.
var classificationRules = []keywordRule{
	{models.TaskTypeCodeGeneration, []string{"generate", "create", "build", "implement", "write a", "scaffold"}},
	{models.TaskTypeCodeReview, []string{"review", "inspect", "critique", "feedback on"}},
	{models.TaskTypeDocumentation, []string{"document", "docs", "readme", "explain"}},
	{models.TaskTypeTesting, []string{"test", "verify", "validate", "coverage"}},
	{models.TaskTypeDebugging, []string{"debug", "fix", "bug", "crash", "broken"}},
	{models.TaskTypeRefactoring, []string{"refactor", "restructure", "clean up", "simplify"}},
	{models.TaskTypeComplianceCheck, []string{"compliance", "policy", "regulation", "gdpr", "hipaa"}},
	{models.TaskTypeSecurityAudit, []string{"security", "audit", "vulnerability", "penetration", "exploit"}},
	{models.TaskTypePerformanceOptimization, []string{"performance", "optimize", "speed up", "latency", "profil"}},
	{models.TaskTypeDeployment, []string{"deploy", "release", "ship", "rollout", "publish"}},
}

// Decomposer classifies requests into typed tasks using the profile registry
// for per-type cost and priority.
type Decomposer struct {
	registry *registry.Registry
}

// New creates a Decomposer backed by the given registry.
func New(reg *registry.Registry) *Decomposer {
	return &Decomposer{registry: reg}
}

// Decompose classifies the input into one or more tasks. It is a pure
// function of its arguments: identical input yields an identical task
// sequence (IDs aside). Dependencies are left empty; the resolver owns them.
//
// When no keyword rule matches, a single CODE_GENERATION task is emitted
// as the documented fallback so that every request produces work.
// A non-empty CompliancePolicies list always adds a COMPLIANCE_CHECK task.
func (d *Decomposer) Decompose(input models.MultimodalInput, level models.ComplianceLevel) []*models.Task {
	content := strings.ToLower(input.Text + "\n" + input.Code)
	modalities := input.Modalities()

	var tasks []*models.Task
	seen := make(map[models.TaskType]bool)

	emit := func(taskType models.TaskType) {
		if seen[taskType] {
			return
		}
		seen[taskType] = true
		profile := d.registry.Profile(taskType)

		caps := append([]string{}, profile.Capabilities...)
		caps = append(caps, modalities...)

		tasks = append(tasks, &models.Task{
			ID:                   uuid.NewString(),
			Type:                 taskType,
			Description:          profile.Description,
			RequiredCapabilities: caps,
			EstimatedCost:        profile.BaseCost,
			ComplianceRequired:   complianceRequired(taskType, level),
			Priority:             profile.Priority,
			SequenceNumber:       len(tasks),
		})
	}

	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(content, kw) {
				emit(rule.taskType)
				break
			}
		}
	}

	if len(input.CompliancePolicies) > 0 {
		emit(models.TaskTypeComplianceCheck)
	}

	// Explicit fallback: an unclassifiable request still yields one task.
	if len(tasks) == 0 {
		emit(models.TaskTypeCodeGeneration)
	}

	return tasks
}

// complianceRequired reports whether a task of the given type must carry
// an executor-reported compliance verdict at the given level.
// GOVERNMENT requires it for every task; ENTERPRISE only for the
// compliance-bearing types; BASIC for none.
func complianceRequired(taskType models.TaskType, level models.ComplianceLevel) bool {
	switch level {
	case models.ComplianceGovernment:
		return true
	case models.ComplianceEnterprise:
		return taskType == models.TaskTypeComplianceCheck || taskType == models.TaskTypeSecurityAudit
	default:
		return false
	}
}
