package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"CollegeROI/internal/domain/models"
	domsvc "CollegeROI/internal/domain/service"
	"CollegeROI/internal/repository"
	"CollegeROI/internal/services/narrative"
	"CollegeROI/internal/usecase"
	xhttp "CollegeROI/pkg/http"

	"github.com/labstack/echo/v4"
)

type fixedEstimator struct {
	income float64
	err    error
}

func (f fixedEstimator) Estimate(context.Context, models.EstimatorInput) (float64, error) {
	return f.income, f.err
}

type capturingNarrator struct {
	got []domsvc.NarrativeInput
}

func (n *capturingNarrator) Name() string { return "capture" }

func (n *capturingNarrator) Narrate(_ context.Context, in domsvc.NarrativeInput) (string, error) {
	n.got = append(n.got, in)
	return "ok", nil
}

type failingNarrator struct{}

func (failingNarrator) Name() string { return "broken" }

func (failingNarrator) Narrate(context.Context, domsvc.NarrativeInput) (string, error) {
	return "", errors.New("provider quota exceeded")
}

func newTestServer(est fixedEstimator, loadErr error, narr *narrative.Service) *echo.Echo {
	costs := repository.NewCostTable(map[string]float64{
		"Example State University": 20000,
		"Harbor College":           6000,
	})
	res := usecase.NewResources(est, costs, loadErr)
	calc := usecase.NewROICalculator(res, usecase.DefaultSettings(), narr, nil, nil, nil)

	e := echo.New()
	NewROIEchoHandler(nil, calc).RegisterRoutes(e)
	return e
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, target, err, rec.Body.String())
	}
	return rec.Code, env
}

const predictBody = `{"degree_type":"Bachelor's Degree","major_field":"Computer Science","control_type":"Public","state":"CA","institution_name":"Example State University"}`

func TestPredictROI(t *testing.T) {
	e := newTestServer(fixedEstimator{income: 55000}, nil, nil)

	code, env := do(t, e, http.MethodPost, "/predict_roi", predictBody)
	if code != http.StatusOK || env.Status != http.StatusOK {
		t.Fatalf("status %d/%d", code, env.Status)
	}
	var r models.FullROIResult
	if err := json.Unmarshal(env.Data, &r); err != nil {
		t.Fatal(err)
	}
	if r.TotalLoanAmount != 80000 || r.ROIPercentage != 587.5 || !r.CostKnown {
		t.Fatalf("result %+v", r)
	}
}

func TestPredictROIZeroIncomeSerializesNeverAsNull(t *testing.T) {
	e := newTestServer(fixedEstimator{income: 0}, nil, nil)

	_, env := do(t, e, http.MethodPost, "/predict_roi", predictBody)
	if !strings.Contains(string(env.Data), `"years_to_break_even":null`) {
		t.Fatalf("data %s", env.Data)
	}
}

func TestPredictROIValidation(t *testing.T) {
	e := newTestServer(fixedEstimator{income: 1}, nil, nil)

	long := strings.Repeat("x", 51)
	code, env := do(t, e, http.MethodPost, "/predict_roi", `{"degree_type":"Bachelor's Degree","state":"`+long+`"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("code %d", code)
	}
	var verrs []xhttp.ValidationError
	_ = json.Unmarshal(env.Data, &verrs)
	if len(verrs) != 1 || verrs[0].Field != "state" {
		t.Fatalf("errors %+v", verrs)
	}

	code, _ = do(t, e, http.MethodPost, "/predict_roi", `{not json`)
	if code != http.StatusBadRequest {
		t.Fatalf("malformed body code %d", code)
	}
}

type recordingEstimator struct {
	income float64
	seen   []models.EstimatorInput
}

func (r *recordingEstimator) Estimate(_ context.Context, in models.EstimatorInput) (float64, error) {
	r.seen = append(r.seen, in)
	return r.income, nil
}

func TestPredictROIEmptyFieldsUseDefaults(t *testing.T) {
	est := &recordingEstimator{income: 55000}
	costs := repository.NewCostTable(map[string]float64{"Example State University": 20000})
	calc := usecase.NewROICalculator(usecase.NewResources(est, costs, nil), usecase.DefaultSettings(), nil, nil, nil, nil)
	e := echo.New()
	NewROIEchoHandler(nil, calc).RegisterRoutes(e)

	body := `{"degree_type":"","major_field":"","control_type":"","state":"","institution_name":"Example State University"}`
	code, env := do(t, e, http.MethodPost, "/predict_roi", body)
	if code != http.StatusOK {
		t.Fatalf("code %d: %s", code, env.Data)
	}
	var r models.FullROIResult
	if err := json.Unmarshal(env.Data, &r); err != nil {
		t.Fatal(err)
	}
	if r.DegreeRecognized {
		t.Fatalf("empty degree type reported as recognized")
	}
	// 4 years at 20000
	if r.TotalLoanAmount != 80000 {
		t.Fatalf("total loan %v", r.TotalLoanAmount)
	}
	if len(est.seen) != 1 || est.seen[0].CredentialCode != "3" {
		t.Fatalf("estimator input %+v", est.seen)
	}
}

func TestPredictROIErrors(t *testing.T) {
	e := newTestServer(fixedEstimator{err: errors.New("model service down")}, nil, nil)
	code, env := do(t, e, http.MethodPost, "/predict_roi", predictBody)
	if code != http.StatusInternalServerError || !strings.Contains(string(env.Data), "Prediction error: model service down") {
		t.Fatalf("prediction failure: %d %s", code, env.Data)
	}

	e = newTestServer(fixedEstimator{}, errors.New("encoder missing"), nil)
	code, _ = do(t, e, http.MethodPost, "/predict_roi", predictBody)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("unavailable: %d", code)
	}
	code, _ = do(t, e, http.MethodGet, "/ready", "")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("ready while unavailable: %d", code)
	}
	code, env = do(t, e, http.MethodGet, "/health", "")
	if code != http.StatusOK || !strings.Contains(string(env.Data), "healthy") {
		t.Fatalf("health must stay up: %d %s", code, env.Data)
	}
}

func TestCompareROI(t *testing.T) {
	e := newTestServer(fixedEstimator{income: 50000}, nil, nil)

	body := `{"a":` + predictBody + `,"b":{"degree_type":"Associate's Degree","major_field":"Nursing","control_type":"Public","state":"WA","institution_name":"Harbor College"}}`
	code, env := do(t, e, http.MethodPost, "/compare_roi", body)
	if code != http.StatusOK {
		t.Fatalf("code %d: %s", code, env.Data)
	}
	var cmp models.Comparison
	if err := json.Unmarshal(env.Data, &cmp); err != nil {
		t.Fatal(err)
	}
	if cmp.LowerCost.Winner != models.WinnerB || cmp.LowerCost.Difference != 80000-12000 {
		t.Fatalf("lower cost %+v", cmp.LowerCost)
	}
	if cmp.HigherIncome.Winner != models.WinnerB || cmp.HigherIncome.Difference != 0 {
		t.Fatalf("equal incomes go to B: %+v", cmp.HigherIncome)
	}
}

func TestGetUniversities(t *testing.T) {
	e := newTestServer(fixedEstimator{}, nil, nil)

	code, env := do(t, e, http.MethodGet, "/get_universities?q=harbor", "")
	if code != http.StatusOK {
		t.Fatalf("code %d", code)
	}
	var u models.UniversitiesResponse
	_ = json.Unmarshal(env.Data, &u)
	if u.Total != 1 || len(u.Universities) != 1 || u.Universities[0] != "Harbor College" {
		t.Fatalf("got %+v", u)
	}

	code, _ = do(t, e, http.MethodGet, "/get_universities?limit=-1", "")
	if code != http.StatusBadRequest {
		t.Fatalf("negative limit: %d", code)
	}
}

func TestGetROIAnalysis(t *testing.T) {
	body := `{"degree_type":"Bachelor's Degree","major_field":"History","control_type":"Public","state":"CA",
		"predicted_income":40000,"range_low":30752.83,"range_high":49247.17,"annual_cost":20000,
		"total_loan_amount":80000,"monthly_payment":1079.48,"total_interest_paid":49537.6,
		"roi_percentage":400,"years_to_break_even":2,"cost_known":true}`

	e := newTestServer(fixedEstimator{}, nil, narrative.NewService(narrative.TemplateNarrator{}))
	code, env := do(t, e, http.MethodPost, "/get_roi_analysis", body)
	if code != http.StatusOK {
		t.Fatalf("code %d: %s", code, env.Data)
	}
	var a models.Analysis
	_ = json.Unmarshal(env.Data, &a)
	if a.Text == "" || a.Provider != narrative.ProviderTemplate {
		t.Fatalf("analysis %+v", a)
	}

	e = newTestServer(fixedEstimator{}, nil, narrative.NewService(failingNarrator{}))
	code, env = do(t, e, http.MethodPost, "/get_roi_analysis", body)
	if code != http.StatusBadGateway || !strings.Contains(string(env.Data), "provider quota exceeded") {
		t.Fatalf("narrative failure: %d %s", code, env.Data)
	}

	// a narrative failure never touches predictions
	code, _ = do(t, e, http.MethodPost, "/predict_roi", predictBody)
	if code != http.StatusOK {
		t.Fatalf("predict after narrative failure: %d", code)
	}
}

func TestGetROIAnalysisInfersCostKnown(t *testing.T) {
	// the web client sends only the fields it displays
	body := `{"degree_type":"Bachelor's Degree","major_field":"History","control_type":"Public","state":"CA",
		"institution_name":"Example State University","predicted_income":40000,"range_low":30752.83,
		"range_high":49247.17,"annual_cost":20000,"total_loan_amount":80000,"monthly_payment":1079.48,
		"total_interest_paid":49537.6,"roi_percentage":400,"years_to_break_even":2}`

	cases := []struct {
		name string
		body string
		want bool
	}{
		{"absent with cost", body, true},
		{"absent without cost", strings.Replace(body, `"annual_cost":20000`, `"annual_cost":0`, 1), false},
		{"explicit false", strings.Replace(body, `"years_to_break_even":2}`, `"years_to_break_even":2,"cost_known":false}`, 1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			narr := &capturingNarrator{}
			e := newTestServer(fixedEstimator{}, nil, narrative.NewService(narr))
			code, env := do(t, e, http.MethodPost, "/get_roi_analysis", tc.body)
			if code != http.StatusOK {
				t.Fatalf("code %d: %s", code, env.Data)
			}
			if len(narr.got) != 1 || narr.got[0].Result.CostKnown != tc.want {
				t.Fatalf("inputs %+v", narr.got)
			}
		})
	}
}
