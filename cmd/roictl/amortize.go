package main

import (
	"fmt"

	"CollegeROI/internal/services/finance"

	"github.com/spf13/cobra"
)

var (
	amortRate  float64
	amortYears int
)

var amortizeCmd = &cobra.Command{
	Use:   "amortize <principal>",
	Short: "Monthly payment and total interest of a loan",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmortize,
}

func init() {
	amortizeCmd.Flags().Float64Var(&amortRate, "rate", finance.DefaultAnnualRate, "Annual interest rate, 0.105 = 10.5%")
	amortizeCmd.Flags().IntVar(&amortYears, "years", finance.DefaultLoanYears, "Loan term in years")
	rootCmd.AddCommand(amortizeCmd)
}

func runAmortize(_ *cobra.Command, args []string) error {
	principal, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	if err := checkTerm(amortYears); err != nil {
		return err
	}

	t := finance.Amortize(principal, amortRate, amortYears)
	if flagJSON {
		return printJSON(t)
	}
	fmt.Printf("\n  Principal        %s\n", dollars(t.Principal))
	fmt.Printf("  Rate / term      %.2f%% over %d years\n", t.AnnualRate*100, t.TermYears)
	fmt.Printf("  Monthly payment  %s\n", dollars(t.MonthlyPayment))
	fmt.Printf("  Total interest   %s\n\n", dollars(t.TotalInterest))
	return nil
}
