package narrative

import (
	"fmt"
	"strings"

	domsvc "CollegeROI/internal/domain/service"

	"github.com/dustin/go-humanize"
)

const systemPrompt = "You are a financial advisor for prospective college students. " +
	"Explain the return on investment of a degree plainly, in two or three short paragraphs, " +
	"using the numbers given. Do not invent figures that are not in the summary."

func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.", -v)
	}
	return "$" + humanize.FormatFloat("#,###.", v)
}

func percent(v float64) string {
	return humanize.FormatFloat("#,###.#", v) + "%"
}

// BuildPrompt renders the summary sent to external providers.
func BuildPrompt(in domsvc.NarrativeInput) string {
	p, r := in.Profile, in.Result

	var b strings.Builder
	b.WriteString("Degree summary:\n")
	fmt.Fprintf(&b, "- Degree: %s in %s\n", p.DegreeType, p.MajorField)
	if p.InstitutionName != "" {
		fmt.Fprintf(&b, "- Institution: %s (%s, %s)\n", p.InstitutionName, p.ControlType, p.State)
	} else {
		fmt.Fprintf(&b, "- Institution type: %s in %s\n", p.ControlType, p.State)
	}
	fmt.Fprintf(&b, "- Predicted annual income: %s (likely range %s to %s)\n",
		money(r.PredictedIncome), money(r.RangeLow), money(r.RangeHigh))
	if r.CostKnown {
		fmt.Fprintf(&b, "- Annual net cost: %s\n", money(r.AnnualCost))
	} else {
		b.WriteString("- Annual net cost: unknown for this institution\n")
	}
	fmt.Fprintf(&b, "- Total loan: %s, monthly payment %s, total interest %s\n",
		money(r.TotalLoanAmount), money(r.MonthlyPayment), money(r.TotalInterestPaid))
	fmt.Fprintf(&b, "- Return on investment: %s\n", percent(r.ROIPercentage))
	if r.YearsToBreakEven.IsNever() {
		b.WriteString("- Break-even: never at the predicted income\n")
	} else {
		fmt.Fprintf(&b, "- Break-even: %s years\n", r.YearsToBreakEven)
	}
	return b.String()
}
