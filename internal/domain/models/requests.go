package models

// Request bodies of the HTTP API.

// PredictROIRequest accepts any category strings, empty ones included. An
// unknown degree type resolves to Bachelor's and unknown categories add
// nothing to the estimate.
type PredictROIRequest struct {
	DegreeType      string `json:"degree_type" validate:"max=100"`
	MajorField      string `json:"major_field" validate:"max=200"`
	ControlType     string `json:"control_type" validate:"max=100"`
	State           string `json:"state" validate:"max=50"`
	InstitutionName string `json:"institution_name" validate:"max=300"`
}

func (r PredictROIRequest) Profile() EnrollmentProfile {
	return EnrollmentProfile{
		DegreeType:      r.DegreeType,
		MajorField:      r.MajorField,
		ControlType:     r.ControlType,
		State:           r.State,
		InstitutionName: r.InstitutionName,
	}
}

type CompareROIRequest struct {
	A PredictROIRequest `json:"a" validate:"required"`
	B PredictROIRequest `json:"b" validate:"required"`
}

// AnalysisRequest carries the profile and an already computed result.
// Clients that only echo the displayed fields omit cost_known.
type AnalysisRequest struct {
	PredictROIRequest
	FullROIResult
	CostKnown *bool `json:"cost_known,omitempty"`
}

// Result returns the embedded result. Without an explicit cost_known, a
// positive annual cost counts as known.
func (r AnalysisRequest) Result() FullROIResult {
	res := r.FullROIResult
	if r.CostKnown != nil {
		res.CostKnown = *r.CostKnown
	} else {
		res.CostKnown = res.AnnualCost > 0
	}
	return res
}

type UniversitiesRequest struct {
	Query string `query:"q" json:"q" validate:"max=200"`
	Limit int    `query:"limit" json:"limit" validate:"gte=0,lte=10000"`
}
