package narrative

import (
	"context"
	"fmt"
	"strings"

	domsvc "CollegeROI/internal/domain/service"
)

const ProviderTemplate = "template"

// TemplateNarrator renders a fixed explanation from the numbers alone.
type TemplateNarrator struct{}

var _ domsvc.Narrator = TemplateNarrator{}

func (TemplateNarrator) Name() string { return ProviderTemplate }

func (TemplateNarrator) Narrate(_ context.Context, in domsvc.NarrativeInput) (string, error) {
	p, r := in.Profile, in.Result

	var b strings.Builder
	fmt.Fprintf(&b, "A %s in %s is predicted to earn about %s a year (range %s to %s).",
		p.DegreeType, p.MajorField, money(r.PredictedIncome), money(r.RangeLow), money(r.RangeHigh))

	if !r.CostKnown {
		b.WriteString(" The cost of this institution is not in our dataset, so the loan figures assume no borrowing.")
	} else {
		fmt.Fprintf(&b, " Financing the full net cost means a loan of %s, repaid at %s a month with %s in total interest.",
			money(r.TotalLoanAmount), money(r.MonthlyPayment), money(r.TotalInterestPaid))
	}

	switch {
	case r.TotalLoanAmount == 0:
	case r.YearsToBreakEven.IsNever():
		b.WriteString(" At the predicted income the investment is never recovered.")
	default:
		fmt.Fprintf(&b, " The return on investment is %s and the cost is recovered in about %s years.",
			percent(r.ROIPercentage), r.YearsToBreakEven)
	}
	return b.String(), nil
}
