package finance

import "CollegeROI/internal/domain/models"

// Degree type labels accepted by ResolveDegree.
const (
	Associate         = "Associate's Degree"
	Bachelor          = "Bachelor's Degree"
	Master            = "Master's Degree"
	Doctoral          = "Doctoral Degree"
	FirstProfessional = "First Professional Degree"
)

// DegreeTypes lists the recognized degree types in display order.
var DegreeTypes = []string{Associate, Bachelor, Master, Doctoral, FirstProfessional}

var bachelorProfile = models.DegreeProfile{CredentialCode: "3", DurationYears: 4, Recognized: true}

// ResolveDegree maps a degree type to its credential code and typical duration.
// Unrecognized input resolves to the Bachelor's profile with Recognized=false.
func ResolveDegree(degreeType string) models.DegreeProfile {
	switch degreeType {
	case Associate:
		return models.DegreeProfile{CredentialCode: "2", DurationYears: 2, Recognized: true}
	case Bachelor:
		return bachelorProfile
	case Master:
		return models.DegreeProfile{CredentialCode: "7", DurationYears: 2, Recognized: true}
	case Doctoral:
		return models.DegreeProfile{CredentialCode: "5", DurationYears: 4, Recognized: true}
	case FirstProfessional:
		return models.DegreeProfile{CredentialCode: "6", DurationYears: 3, Recognized: true}
	}

	p := bachelorProfile
	p.Recognized = false
	return p
}
