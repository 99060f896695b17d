package models

import "testing"

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below range", -0.5, 0},
		{"lower bound", 0, 0},
		{"in range", 0.7, 0.7},
		{"upper bound", 1, 1},
		{"above range", 1.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ExecutionResult{Confidence: tt.in}
			r.ClampConfidence()
			if r.Confidence != tt.want {
				t.Errorf("got %v, want %v", r.Confidence, tt.want)
			}
		})
	}
}

func TestComplianceSummaryOverall(t *testing.T) {
	tests := []struct {
		name    string
		summary ComplianceSummary
		want    ComplianceStatus
	}{
		{"all compliant", ComplianceSummary{Compliant: 3}, ComplianceCompliant},
		{"one non-compliant", ComplianceSummary{Compliant: 2, NonCompliant: 1}, ComplianceNonCompliant},
		{"requires review only", ComplianceSummary{Compliant: 1, RequiresReview: 2}, ComplianceCompliant},
		{"empty", ComplianceSummary{}, ComplianceCompliant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.Overall(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComplianceStatusValid(t *testing.T) {
	for _, s := range []ComplianceStatus{ComplianceCompliant, ComplianceNonCompliant, ComplianceRequiresReview} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ComplianceStatus("PENDING").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}
