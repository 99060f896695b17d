package models

// ComplianceLevel selects how strictly compliance policy is applied.
type ComplianceLevel string

const (
	// ComplianceBasic applies only baseline checks.
	ComplianceBasic ComplianceLevel = "BASIC"
	// ComplianceEnterprise enforces organizational policy.
	ComplianceEnterprise ComplianceLevel = "ENTERPRISE"
	// ComplianceGovernment enforces the strictest regulatory tier.
	ComplianceGovernment ComplianceLevel = "GOVERNMENT"
)

// Valid returns true if the level is a known value.
func (l ComplianceLevel) Valid() bool {
	switch l {
	case ComplianceBasic, ComplianceEnterprise, ComplianceGovernment:
		return true
	default:
		return false
	}
}

// MultimodalInput is the raw request the decomposer classifies.
// All fields are optional; an empty input still yields the fallback task.
type MultimodalInput struct {
	// Text is the natural-language request.
	Text string `json:"text,omitempty"`
	// Code is inline source content accompanying the request.
	Code string `json:"code,omitempty"`
	// Images lists references to attached images.
	Images []string `json:"images,omitempty"`
	// Documents lists references to attached documents.
	Documents []string `json:"documents,omitempty"`
	// CompliancePolicies lists policy identifiers the request is subject to.
	CompliancePolicies []string `json:"compliance_policies,omitempty"`
	// Metadata carries caller-defined annotations.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Modalities returns the modality tags present in the input, in a fixed
// order: text, code, image, document.
func (in MultimodalInput) Modalities() []string {
	var tags []string
	if in.Text != "" {
		tags = append(tags, "text")
	}
	if in.Code != "" {
		tags = append(tags, "code")
	}
	if len(in.Images) > 0 {
		tags = append(tags, "image")
	}
	if len(in.Documents) > 0 {
		tags = append(tags, "document")
	}
	return tags
}
