package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"CollegeROI/internal/domain/models"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var computeReq models.PredictROIRequest

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Predict income and ROI for one degree",
	RunE:  runCompute,
}

func init() {
	f := computeCmd.Flags()
	f.StringVar(&computeReq.DegreeType, "degree", "Bachelor's Degree", "Degree type")
	f.StringVar(&computeReq.MajorField, "major", "", "Major field (required)")
	f.StringVar(&computeReq.ControlType, "control", "Public", "Institution control type")
	f.StringVar(&computeReq.State, "state", "", "Two-letter state code (required)")
	f.StringVar(&computeReq.InstitutionName, "institution", "", "Institution name, exact match")
	_ = computeCmd.MarkFlagRequired("major")
	_ = computeCmd.MarkFlagRequired("state")
	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	calc, err := newCalculator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Estimator.Timeout+cfg.Recorder.Timeout)
	defer cancel()

	r, err := calc.Compute(ctx, computeReq.Profile())
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(r)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	row := func(k, v string) { fmt.Fprintf(w, "  %s\t%s\n", k, v) }

	fmt.Fprintln(w)
	row("Predicted income", dollars(r.PredictedIncome))
	row("Likely range", dollars(r.RangeLow)+" - "+dollars(r.RangeHigh))
	row("Model fit", fmt.Sprintf("RMSE %s, R² %.4f", dollars(r.RMSE), r.RSquared))
	if r.CostKnown {
		row("Annual cost", dollars(r.AnnualCost))
	} else {
		row("Annual cost", "unknown institution")
	}
	row("Total loan", dollars(r.TotalLoanAmount))
	row("Monthly payment", dollars(r.MonthlyPayment))
	row("Total interest", dollars(r.TotalInterestPaid))
	row("ROI", humanize.FormatFloat("#,###.##", r.ROIPercentage)+"%")
	row("Break-even", r.YearsToBreakEven.String()+yearsSuffix(r.YearsToBreakEven))
	if !r.DegreeRecognized {
		row("Note", fmt.Sprintf("%q is not a known degree type, used Bachelor's", computeReq.DegreeType))
	}
	fmt.Fprintln(w)
	return w.Flush()
}

func dollars(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func yearsSuffix(y models.Years) string {
	if y.IsNever() {
		return ""
	}
	return " years"
}
