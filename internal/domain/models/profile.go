package models

// EnrollmentProfile describes a prospective student's choice of program.
type EnrollmentProfile struct {
	DegreeType      string `json:"degree_type"`
	MajorField      string `json:"major_field"`
	ControlType     string `json:"control_type"` // Public | Private non-profit | Private for-profit
	State           string `json:"state"`        // two-letter code
	InstitutionName string `json:"institution_name,omitempty"`
}

// DegreeProfile is the resolved form of a degree type.
type DegreeProfile struct {
	CredentialCode string
	DurationYears  int
	// Recognized is false when the input fell back to the Bachelor's default.
	Recognized bool
}

// EstimatorInput is the record handed to an income estimator.
type EstimatorInput struct {
	CredentialCode  string `json:"credential_code" yaml:"credential_code"`
	CredentialLabel string `json:"credential_label" yaml:"credential_label"`
	MajorField      string `json:"major_field" yaml:"major_field"`
	ControlType     string `json:"control_type" yaml:"control_type"`
	State           string `json:"state" yaml:"state"`
}
