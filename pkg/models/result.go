package models

import "time"

// ComplianceStatus classifies a task's regulatory/policy conformance.
type ComplianceStatus string

const (
	// ComplianceCompliant indicates the work met all applicable policies.
	ComplianceCompliant ComplianceStatus = "COMPLIANT"
	// ComplianceNonCompliant indicates a policy violation or failure.
	ComplianceNonCompliant ComplianceStatus = "NON_COMPLIANT"
	// ComplianceRequiresReview indicates a human must make the call.
	ComplianceRequiresReview ComplianceStatus = "REQUIRES_REVIEW"
)

// Valid returns true if the status is a known value.
func (s ComplianceStatus) Valid() bool {
	switch s {
	case ComplianceCompliant, ComplianceNonCompliant, ComplianceRequiresReview:
		return true
	default:
		return false
	}
}

// ExecutionResult records the outcome of one task's final execution attempt.
// Results are append-only; they are never mutated after creation.
type ExecutionResult struct {
	// TaskID is the task this result belongs to.
	TaskID string `json:"task_id"`
	// Success indicates whether the task completed successfully.
	Success bool `json:"success"`
	// Output is the opaque value produced by the executor.
	Output any `json:"output,omitempty"`
	// CostConsumed is the actual resource consumption in credits.
	CostConsumed float64 `json:"cost_consumed"`
	// ComplianceStatus is the task's compliance classification.
	ComplianceStatus ComplianceStatus `json:"compliance_status"`
	// Duration is how long the final attempt took.
	Duration time.Duration `json:"duration"`
	// Confidence is the executor's self-reported confidence in [0,1].
	Confidence float64 `json:"confidence"`
	// Explanation describes why the task failed or was skipped, if it was.
	Explanation string `json:"explanation,omitempty"`
	// Attempts is the number of executor invocations made for this task.
	Attempts int `json:"attempts,omitempty"`
	// Cancelled indicates the task was never dispatched because the plan
	// was cancelled first.
	Cancelled bool `json:"cancelled,omitempty"`
}

// ClampConfidence forces Confidence into [0,1].
func (r *ExecutionResult) ClampConfidence() {
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
}

// ComplianceSummary counts results by compliance status.
type ComplianceSummary struct {
	// Compliant is the number of COMPLIANT results.
	Compliant int `json:"compliant"`
	// NonCompliant is the number of NON_COMPLIANT results.
	NonCompliant int `json:"non_compliant"`
	// RequiresReview is the number of REQUIRES_REVIEW results.
	RequiresReview int `json:"requires_review"`
}

// Overall returns the aggregate compliance classification. A report is
// COMPLIANT unless any result is NON_COMPLIANT; REQUIRES_REVIEW results
// alone do not flip the overall status.
func (s ComplianceSummary) Overall() ComplianceStatus {
	if s.NonCompliant > 0 {
		return ComplianceNonCompliant
	}
	return ComplianceCompliant
}

// ExecutionReport is the rolled-up outcome of executing a plan.
type ExecutionReport struct {
	// PlanID is the plan this report covers.
	PlanID string `json:"plan_id"`
	// Results holds one entry per considered task, in plan order.
	Results []ExecutionResult `json:"results"`
	// TotalCostConsumed is the sum of CostConsumed across all results.
	TotalCostConsumed float64 `json:"total_cost_consumed"`
	// OverallSuccess is true iff every result succeeded.
	OverallSuccess bool `json:"overall_success"`
	// Compliance summarizes results by compliance status.
	Compliance ComplianceSummary `json:"compliance"`
}
