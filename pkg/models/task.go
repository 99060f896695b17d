package models

// TaskType classifies the kind of work a task represents.
// The set is closed: executors are registered per type.
type TaskType string

const (
	// TaskTypeCodeGeneration produces new code.
	TaskTypeCodeGeneration TaskType = "CODE_GENERATION"
	// TaskTypeCodeReview reviews existing code.
	TaskTypeCodeReview TaskType = "CODE_REVIEW"
	// TaskTypeDocumentation writes or updates documentation.
	TaskTypeDocumentation TaskType = "DOCUMENTATION"
	// TaskTypeTesting writes or runs tests.
	TaskTypeTesting TaskType = "TESTING"
	// TaskTypeDebugging diagnoses and fixes defects.
	TaskTypeDebugging TaskType = "DEBUGGING"
	// TaskTypeRefactoring restructures code without changing behavior.
	TaskTypeRefactoring TaskType = "REFACTORING"
	// TaskTypeComplianceCheck verifies policy conformance.
	TaskTypeComplianceCheck TaskType = "COMPLIANCE_CHECK"
	// TaskTypeSecurityAudit audits for security issues.
	TaskTypeSecurityAudit TaskType = "SECURITY_AUDIT"
	// TaskTypePerformanceOptimization improves runtime characteristics.
	TaskTypePerformanceOptimization TaskType = "PERFORMANCE_OPTIMIZATION"
	// TaskTypeDeployment ships the result.
	TaskTypeDeployment TaskType = "DEPLOYMENT"
)

// AllTaskTypes lists every known task type in a fixed order.
var AllTaskTypes = []TaskType{
	TaskTypeCodeGeneration,
	TaskTypeCodeReview,
	TaskTypeDocumentation,
	TaskTypeTesting,
	TaskTypeDebugging,
	TaskTypeRefactoring,
	TaskTypeComplianceCheck,
	TaskTypeSecurityAudit,
	TaskTypePerformanceOptimization,
	TaskTypeDeployment,
}

// Valid returns true if the task type is a known value.
func (t TaskType) Valid() bool {
	for _, known := range AllTaskTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Task represents a unit of work emitted by the decomposer.
// The Dependencies field starts empty and is populated exactly once
// by the dependency resolver; tasks are immutable afterwards.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// Type is the classification of this task.
	Type TaskType `json:"type"`
	// Description is a human-readable summary of the work.
	Description string `json:"description"`
	// RequiredCapabilities lists the modality tags this task needs
	// (e.g. "text", "code", "image", "document").
	RequiredCapabilities []string `json:"required_capabilities,omitempty"`
	// Dependencies lists task IDs that must complete before this task.
	Dependencies []string `json:"dependencies,omitempty"`
	// EstimatedCost is the expected resource consumption in credits.
	EstimatedCost float64 `json:"estimated_cost"`
	// ComplianceRequired indicates the executor's compliance verdict matters.
	ComplianceRequired bool `json:"compliance_required"`
	// Priority orders tasks among peers; higher runs earlier.
	Priority int `json:"priority"`
	// SequenceNumber records creation order for stable tie-breaking.
	SequenceNumber int `json:"sequence_number"`
}

// DependsOn returns true if the task lists depID as a direct dependency.
func (t *Task) DependsOn(depID string) bool {
	for _, id := range t.Dependencies {
		if id == depID {
			return true
		}
	}
	return false
}
