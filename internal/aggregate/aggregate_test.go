package aggregate

import (
	"testing"

	"github.com/ShayCichocki/baton/pkg/models"
)

func TestAggregate(t *testing.T) {
	results := []models.ExecutionResult{
		{TaskID: "t1", Success: true, CostConsumed: 5, ComplianceStatus: models.ComplianceCompliant},
		{TaskID: "t2", Success: true, CostConsumed: 3, ComplianceStatus: models.ComplianceRequiresReview},
		{TaskID: "t3", Success: false, ComplianceStatus: models.ComplianceNonCompliant, Explanation: "boom"},
	}

	report := Aggregate("plan-1", results)
	if report.PlanID != "plan-1" {
		t.Errorf("PlanID = %q, want plan-1", report.PlanID)
	}
	if report.OverallSuccess {
		t.Error("OverallSuccess should be false with a failed task")
	}
	if report.TotalCostConsumed != 8 {
		t.Errorf("TotalCostConsumed = %.2f, want 8", report.TotalCostConsumed)
	}
	c := report.Compliance
	if c.Compliant != 1 || c.NonCompliant != 1 || c.RequiresReview != 1 {
		t.Errorf("compliance counts = %+v, want 1/1/1", c)
	}
	if c.Overall() != models.ComplianceNonCompliant {
		t.Errorf("overall compliance = %s, want NON_COMPLIANT", c.Overall())
	}
	if len(report.Results) != 3 {
		t.Errorf("results len = %d, want 3", len(report.Results))
	}
}

func TestAggregateReviewDoesNotFlipCompliance(t *testing.T) {
	results := []models.ExecutionResult{
		{TaskID: "t1", Success: true, CostConsumed: 1, ComplianceStatus: models.ComplianceCompliant},
		{TaskID: "t2", Success: true, CostConsumed: 1, ComplianceStatus: models.ComplianceRequiresReview},
	}

	report := Aggregate("plan-1", results)
	if !report.OverallSuccess {
		t.Error("OverallSuccess should be true")
	}
	if got := report.Compliance.Overall(); got != models.ComplianceCompliant {
		t.Errorf("overall compliance = %s, want COMPLIANT", got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate("plan-1", nil)
	if report.OverallSuccess {
		t.Error("empty result set is not a success")
	}
	if report.TotalCostConsumed != 0 {
		t.Errorf("TotalCostConsumed = %.2f, want 0", report.TotalCostConsumed)
	}
}
