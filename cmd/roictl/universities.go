package main

import (
	"fmt"

	"CollegeROI/internal/domain/models"

	"github.com/spf13/cobra"
)

var (
	uniLimit int
)

var universitiesCmd = &cobra.Command{
	Use:     "universities [query]",
	Aliases: []string{"unis"},
	Short:   "List institutions in the cost dataset",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runUniversities,
}

func init() {
	universitiesCmd.Flags().IntVarP(&uniLimit, "limit", "l", 25, "Maximum names to print, 0 for all")
	rootCmd.AddCommand(universitiesCmd)
}

func runUniversities(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	calc, err := newCalculator(cfg)
	if err != nil {
		return err
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	names, total, err := calc.Universities(query, uniLimit)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(models.UniversitiesResponse{Universities: names, Total: total})
	}
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
	if total > len(names) {
		fmt.Printf("  ... %d more\n", total-len(names))
	}
	return nil
}
