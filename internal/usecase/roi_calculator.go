package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"CollegeROI/internal/domain/models"
	domrepo "CollegeROI/internal/domain/repository"
	domsvc "CollegeROI/internal/domain/service"
	"CollegeROI/internal/services/finance"
	"CollegeROI/internal/services/narrative"
	"CollegeROI/pkg/logger"
	"CollegeROI/pkg/util"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Settings are the financial assumptions and call bounds of the calculator.
type Settings struct {
	AnnualRate       float64
	LoanYears        int
	HorizonYears     int
	ModelRMSE        float64
	ModelRSquared    float64
	EstimatorTimeout time.Duration
	RecorderTimeout  time.Duration
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		AnnualRate:       finance.DefaultAnnualRate,
		LoanYears:        finance.DefaultLoanYears,
		HorizonYears:     finance.DefaultHorizonYears,
		ModelRMSE:        finance.DefaultModelRMSE,
		ModelRSquared:    finance.DefaultModelRSquared,
		EstimatorTimeout: 5 * time.Second,
		RecorderTimeout:  2 * time.Second,
	}
}

// ROICalculator turns an enrollment profile into a full financial result.
type ROICalculator struct {
	res      *Resources
	settings Settings
	narrator *narrative.Service
	recorder domrepo.PredictionRecorder
	metrics  domrepo.Metrics
	l        *logger.Logger

	now   func() time.Time
	newID func() string
}

func NewROICalculator(
	res *Resources,
	settings Settings,
	narrator *narrative.Service,
	recorder domrepo.PredictionRecorder,
	metrics domrepo.Metrics,
	l *logger.Logger,
) *ROICalculator {
	if l == nil {
		l = logger.NewNop()
	}
	return &ROICalculator{
		res:      res,
		settings: settings,
		narrator: narrator,
		recorder: recorder,
		metrics:  metrics,
		l:        l,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Ready is nil once the estimator and cost table are loaded.
func (c *ROICalculator) Ready() error {
	return c.res.Ready()
}

// Compute runs the full pipeline for one profile. Any estimator failure aborts
// with KindPrediction; there is no partial result.
func (c *ROICalculator) Compute(ctx context.Context, p models.EnrollmentProfile) (models.FullROIResult, error) {
	start := time.Now()
	if err := c.res.Ready(); err != nil {
		c.recordError(err)
		return models.FullROIResult{}, err
	}

	degree := finance.ResolveDegree(p.DegreeType)

	income, err := c.estimate(ctx, p, degree)
	if err != nil {
		c.recordError(err)
		return models.FullROIResult{}, err
	}

	low, high := finance.PredictionRange(income, c.settings.ModelRMSE)
	annualCost, costKnown := c.res.Costs.Lookup(p.InstitutionName)
	principal := annualCost * float64(degree.DurationYears)
	loan := finance.Amortize(principal, c.settings.AnnualRate, c.settings.LoanYears)
	roi := finance.ComputeROI(income, principal, c.settings.HorizonYears)

	result := models.FullROIResult{
		PredictedIncome:   income,
		RangeLow:          low,
		RangeHigh:         high,
		RMSE:              c.settings.ModelRMSE,
		RSquared:          c.settings.ModelRSquared,
		AnnualCost:        annualCost,
		TotalLoanAmount:   loan.Principal,
		MonthlyPayment:    loan.MonthlyPayment,
		TotalInterestPaid: loan.TotalInterest,
		ROIPercentage:     roi.ROIPercentage,
		YearsToBreakEven:  roi.YearsToBreakEven,
		CostKnown:         costKnown,
		DegreeRecognized:  degree.Recognized,
	}

	if c.metrics != nil {
		c.metrics.RecordPrediction(degree.CredentialCode, costKnown)
		c.metrics.RecordPredictedIncome(degree.CredentialCode, income)
		c.metrics.RecordLatency("compute", time.Since(start).Seconds())
	}
	c.record(ctx, p, result)

	return result, nil
}

func (c *ROICalculator) estimate(ctx context.Context, p models.EnrollmentProfile, degree models.DegreeProfile) (float64, error) {
	in := models.EstimatorInput{
		CredentialCode:  degree.CredentialCode,
		CredentialLabel: p.DegreeType,
		MajorField:      p.MajorField,
		ControlType:     p.ControlType,
		State:           p.State,
	}

	if c.settings.EstimatorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.settings.EstimatorTimeout)
		defer cancel()
	}

	start := time.Now()
	income, err := c.res.Estimator.Estimate(ctx, in)
	if c.metrics != nil {
		c.metrics.RecordLatency("estimate", time.Since(start).Seconds())
	}
	if err != nil {
		return 0, models.NewROIError(models.KindPrediction, "estimate", err)
	}
	if math.IsNaN(income) || math.IsInf(income, 0) {
		return 0, models.NewROIError(models.KindPrediction, "estimate", fmt.Errorf("non-finite estimate %v", income))
	}
	return income, nil
}

// record appends the result to the prediction log. Failures are logged only.
func (c *ROICalculator) record(ctx context.Context, p models.EnrollmentProfile, r models.FullROIResult) {
	if c.recorder == nil {
		return
	}
	rec := models.PredictionRecord{
		ID:        c.newID(),
		CreatedAt: c.now().UTC(),
		Profile:   p,
		Result:    r,
	}

	rctx := context.WithoutCancel(ctx)
	if c.settings.RecorderTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, c.settings.RecorderTimeout)
		defer cancel()
	}

	err := c.recorder.Record(rctx, rec)
	if c.metrics != nil {
		c.metrics.RecordRecorderWrite(c.recorder.Name(), err)
	}
	if err != nil {
		c.l.Warn("failed to record prediction",
			logger.String("backend", c.recorder.Name()),
			logger.String("id", rec.ID),
			logger.Error(err),
		)
	}
}

// Compare computes both profiles concurrently and summarizes which one wins.
func (c *ROICalculator) Compare(ctx context.Context, a, b models.EnrollmentProfile) (models.Comparison, error) {
	var ra, rb models.FullROIResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ra, err = c.Compute(gctx, a)
		return err
	})
	g.Go(func() error {
		var err error
		rb, err = c.Compute(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Comparison{}, err
	}

	return Summarize(ra, rb), nil
}

// Summarize picks the better ROI, the higher income and the lower total loan.
// Ties go to B.
func Summarize(a, b models.FullROIResult) models.Comparison {
	roiDiff := a.ROIPercentage - b.ROIPercentage
	incomeDiff := a.PredictedIncome - b.PredictedIncome
	costDiff := a.TotalLoanAmount - b.TotalLoanAmount

	return models.Comparison{
		A:            a,
		B:            b,
		BetterROI:    verdict(roiDiff > 0, roiDiff),
		HigherIncome: verdict(incomeDiff > 0, incomeDiff),
		LowerCost:    verdict(costDiff < 0, costDiff),
	}
}

func verdict(aWins bool, diff float64) models.ComparisonVerdict {
	w := models.WinnerB
	if aWins {
		w = models.WinnerA
	}
	return models.ComparisonVerdict{Winner: w, Difference: math.Abs(diff)}
}

// Analyze asks the narrator to explain an already computed result.
func (c *ROICalculator) Analyze(ctx context.Context, p models.EnrollmentProfile, r models.FullROIResult) (models.Analysis, error) {
	if c.narrator == nil {
		err := models.NewROIError(models.KindUnavailable, "analyze", fmt.Errorf("no narrative provider configured"))
		c.recordError(err)
		return models.Analysis{}, err
	}

	start := time.Now()
	a, err := c.narrator.Analyze(ctx, domsvc.NarrativeInput{Profile: p, Result: r})
	if err != nil {
		c.recordError(err)
		c.l.Error("narrative generation failed",
			logger.String("provider", c.narrator.Provider()),
			logger.Error(err),
		)
		return models.Analysis{}, err
	}
	if c.metrics != nil {
		c.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	}
	return a, nil
}

// Universities lists institution names containing query, case-insensitively.
// limit <= 0 means no limit. total is the match count before the limit.
func (c *ROICalculator) Universities(query string, limit int) (names []string, total int, err error) {
	if err := c.res.Ready(); err != nil {
		return nil, 0, err
	}

	all := c.res.Costs.Names()
	if query == "" {
		names = all
	} else {
		names = make([]string, 0, 64)
		for _, n := range all {
			if util.ContainsFold(n, query) {
				names = append(names, n)
			}
		}
	}
	if !sort.StringsAreSorted(names) {
		names = append([]string(nil), names...)
		sort.Strings(names)
	}

	total = len(names)
	if limit > 0 && limit < total {
		names = names[:limit]
	}
	return names, total, nil
}

// History returns the newest recorded predictions when the recorder can read back.
func (c *ROICalculator) History(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	reader, ok := c.recorder.(domrepo.PredictionReader)
	if !ok {
		name := "none"
		if c.recorder != nil {
			name = c.recorder.Name()
		}
		return nil, fmt.Errorf("recorder %q cannot read history", name)
	}
	return reader.Recent(ctx, limit)
}

func (c *ROICalculator) recordError(err error) {
	if c.metrics != nil {
		c.metrics.RecordError(models.KindOf(err).String())
	}
}
