package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CollegeROI/internal/domain/models"
	domsvc "CollegeROI/internal/domain/service"
	icache "CollegeROI/internal/service/cache"

	"google.golang.org/genai"
)

func sampleInput() domsvc.NarrativeInput {
	return domsvc.NarrativeInput{
		Profile: models.EnrollmentProfile{
			DegreeType:      "Bachelor's Degree",
			MajorField:      "Computer Science",
			ControlType:     "Public",
			State:           "CA",
			InstitutionName: "Example State University",
		},
		Result: models.FullROIResult{
			PredictedIncome:   55000,
			RangeLow:          45752.83,
			RangeHigh:         64247.17,
			AnnualCost:        20000,
			TotalLoanAmount:   80000,
			MonthlyPayment:    1079.48,
			TotalInterestPaid: 49537.6,
			ROIPercentage:     587.5,
			YearsToBreakEven:  models.Years(80000.0 / 55000.0),
			CostKnown:         true,
			DegreeRecognized:  true,
		},
	}
}

func TestBuildPromptFormatsMoney(t *testing.T) {
	p := BuildPrompt(sampleInput())
	for _, want := range []string{"$55,000", "$80,000", "$1,079", "587.5%", "Example State University", "1.45 years"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}

	in := sampleInput()
	in.Result.YearsToBreakEven = models.Never
	if !strings.Contains(BuildPrompt(in), "never") {
		t.Fatalf("never break-even not described")
	}
}

func TestBuildPromptFromClientAnalysisBody(t *testing.T) {
	body := `{"degree_type":"Bachelor's Degree","major_field":"History","control_type":"Public","state":"CA",
		"institution_name":"Example State University","predicted_income":40000,"range_low":30752.83,
		"range_high":49247.17,"annual_cost":20000,"total_loan_amount":80000,"monthly_payment":1079.48,
		"total_interest_paid":49537.6,"roi_percentage":400,"years_to_break_even":2}`

	var req models.AnalysisRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}
	p := BuildPrompt(domsvc.NarrativeInput{Profile: req.Profile(), Result: req.Result()})
	if !strings.Contains(p, "Annual net cost: $20,000") {
		t.Fatalf("cost not described:\n%s", p)
	}
	if strings.Contains(p, "unknown for this institution") {
		t.Fatalf("cost reported unknown:\n%s", p)
	}
}

func TestTemplateNarratorIsDeterministic(t *testing.T) {
	n := TemplateNarrator{}
	a, err := n.Narrate(context.Background(), sampleInput())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := n.Narrate(context.Background(), sampleInput())
	if a != b || a == "" {
		t.Fatalf("template not deterministic: %q vs %q", a, b)
	}

	in := sampleInput()
	in.Result.CostKnown = false
	in.Result.TotalLoanAmount = 0
	c, _ := n.Narrate(context.Background(), in)
	if !strings.Contains(c, "not in our dataset") {
		t.Fatalf("unknown cost not mentioned: %q", c)
	}
}

type stubNarrator struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubNarrator) Name() string { return s.name }

func (s *stubNarrator) Narrate(context.Context, domsvc.NarrativeInput) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestServicePassesTextThroughAndCaches(t *testing.T) {
	primary := &stubNarrator{name: "stub", text: "  provider text, untouched  "}
	svc := NewService(primary, WithCache(icache.NewTTLCache[string](), time.Minute))

	first, err := svc.Analyze(context.Background(), sampleInput())
	if err != nil {
		t.Fatal(err)
	}
	if first.Text != primary.text || first.FromCache || first.Provider != "stub" {
		t.Fatalf("first: %+v", first)
	}
	second, _ := svc.Analyze(context.Background(), sampleInput())
	if !second.FromCache || second.Text != primary.text {
		t.Fatalf("second: %+v", second)
	}
	if primary.calls != 1 {
		t.Fatalf("provider called %d times", primary.calls)
	}
}

func TestServiceFailureKinds(t *testing.T) {
	boom := errors.New("quota exceeded")

	svc := NewService(&stubNarrator{name: "stub", err: boom})
	_, err := svc.Analyze(context.Background(), sampleInput())
	if models.KindOf(err) != models.KindNarrative || !errors.Is(err, boom) {
		t.Fatalf("want narrative error wrapping cause, got %v", err)
	}

	svc = NewService(&stubNarrator{name: "stub", err: boom}, WithFallback(TemplateNarrator{}))
	a, err := svc.Analyze(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("fallback should hide the error: %v", err)
	}
	if !a.Fallback || a.Provider != ProviderTemplate || a.Text == "" {
		t.Fatalf("fallback analysis: %+v", a)
	}
}

func TestOpenAINarrator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization header %q", got)
		}
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "gpt-test" || len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("request %+v", req)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Looks worth it."}}]}`))
	}))
	defer srv.Close()

	n, err := NewOpenAINarrator("sk-test", srv.URL, "gpt-test", 200, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	text, err := n.Narrate(context.Background(), sampleInput())
	if err != nil || text != "Looks worth it." {
		t.Fatalf("got %q %v", text, err)
	}

	if _, err := NewOpenAINarrator("", srv.URL, "", 0, time.Second); err == nil {
		t.Fatalf("empty key should fail")
	}
}

func TestOpenAINarratorEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	n, _ := NewOpenAINarrator("k", srv.URL, "", 0, time.Second)
	if _, err := n.Narrate(context.Background(), sampleInput()); err == nil {
		t.Fatalf("expected error")
	}
}

type fakeModels struct {
	model  string
	config *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	return f.resp, f.err
}

func TestGeminiNarrator(t *testing.T) {
	fm := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "Strong return."}}},
		}},
	}}
	n := newGeminiNarrator(fm, "", 300)

	text, err := n.Narrate(context.Background(), sampleInput())
	if err != nil || text != "Strong return." {
		t.Fatalf("got %q %v", text, err)
	}
	if fm.model != defaultGeminiModel {
		t.Fatalf("model %q", fm.model)
	}
	if fm.config.MaxOutputTokens != 300 || fm.config.SystemInstruction == nil {
		t.Fatalf("config %+v", fm.config)
	}

	fm.err = errors.New("unavailable")
	if _, err := n.Narrate(context.Background(), sampleInput()); err == nil {
		t.Fatalf("expected error")
	}
}
