package models

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestYearsJSON(t *testing.T) {
	b, err := json.Marshal(FullROIResult{YearsToBreakEven: Never})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"years_to_break_even":null`) {
		t.Fatalf("expected null for infinity, got %s", b)
	}

	var back FullROIResult
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.YearsToBreakEven.IsNever() {
		t.Fatalf("expected +Inf after round trip, got %v", back.YearsToBreakEven)
	}

	b, _ = json.Marshal(Years(80000.0 / 55000.0))
	var y Years
	if err := json.Unmarshal(b, &y); err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(y)-1.454545) > 1e-5 {
		t.Fatalf("finite value changed: %v", y)
	}
	if Never.String() != "never" || Years(1.5).String() != "1.50" {
		t.Fatalf("unexpected String output")
	}
}

func TestROIErrorMessagesAndKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewROIError(KindPrediction, "estimate", cause)
	if err.Error() != "Prediction error: connection refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not unwrapped")
	}

	wrapped := errors.Join(errors.New("ctx"), NewROIError(KindUnavailable, "compute", ErrResourcesUnavailable))
	if KindOf(wrapped) != KindUnavailable {
		t.Fatalf("KindOf=%v", KindOf(wrapped))
	}
	if !errors.Is(wrapped, ErrResourcesUnavailable) {
		t.Fatalf("sentinel not found")
	}
	if KindOf(cause) != 0 {
		t.Fatalf("plain error should have no kind")
	}
}

func TestPredictRequestProfile(t *testing.T) {
	r := PredictROIRequest{DegreeType: "Master's Degree", MajorField: "Economics", ControlType: "Public", State: "CA", InstitutionName: "UCLA"}
	p := r.Profile()
	if p.DegreeType != r.DegreeType || p.InstitutionName != "UCLA" || p.State != "CA" {
		t.Fatalf("unexpected profile %+v", p)
	}
}
