package finance

import (
	"math"

	"CollegeROI/internal/domain/models"
)

const (
	DefaultAnnualRate = 0.105
	DefaultLoanYears  = 10
)

// Amortize computes the level monthly payment and total interest of a loan.
// A zero rate splits the principal evenly. A zero principal or a non-positive
// term yields no payments.
// Negative inputs are not rejected; the formulas apply as written.
func Amortize(principal, annualRate float64, years int) models.LoanTerms {
	terms := models.LoanTerms{Principal: principal, AnnualRate: annualRate, TermYears: years}
	if principal == 0 || years <= 0 {
		return terms
	}

	r := annualRate / 12
	n := float64(years * 12)

	if r == 0 {
		terms.MonthlyPayment = principal / n
		return terms
	}

	growth := math.Pow(1+r, n)
	terms.MonthlyPayment = principal * r * growth / (growth - 1)
	terms.TotalInterest = terms.MonthlyPayment*n - principal
	return terms
}
