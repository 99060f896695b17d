// Package aggregate rolls per-task execution results up into a report.
package aggregate

import "github.com/ShayCichocki/baton/pkg/models"

// Aggregate builds the plan-level report for a result set. Results are
// kept in their given order. Overall success requires every task to
// have succeeded; one NON_COMPLIANT result makes the whole report
// non-compliant, while REQUIRES_REVIEW results alone do not.
func Aggregate(planID string, results []models.ExecutionResult) models.ExecutionReport {
	report := models.ExecutionReport{
		PlanID:         planID,
		Results:        append([]models.ExecutionResult(nil), results...),
		OverallSuccess: len(results) > 0,
	}

	for _, r := range results {
		report.TotalCostConsumed += r.CostConsumed
		if !r.Success {
			report.OverallSuccess = false
		}
		switch r.ComplianceStatus {
		case models.ComplianceCompliant:
			report.Compliance.Compliant++
		case models.ComplianceNonCompliant:
			report.Compliance.NonCompliant++
		case models.ComplianceRequiresReview:
			report.Compliance.RequiresReview++
		}
	}
	return report
}
