package main

import (
	"fmt"
	"math"
	"strings"

	"CollegeROI/pkg/util"
)

// parseAmount accepts "80000", "80,000" and "$80,000".
func parseAmount(s string) (float64, error) {
	v, ok := util.ParseFloat(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must not be negative")
	}
	return v, nil
}

func checkTerm(years int) error {
	if years <= 0 {
		return fmt.Errorf("loan term must be at least one year, got %d", years)
	}
	return nil
}
