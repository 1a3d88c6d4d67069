package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"CollegeROI/internal/di"
	"CollegeROI/internal/domain/repository"
	"CollegeROI/internal/usecase"
	"CollegeROI/pkg/metrics"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent predictions from the sqlite or postgres log",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of records")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	switch cfg.Recorder.Backend {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("recorder backend %q cannot be read back", cfg.Recorder.Backend)
	}

	l := cliLogger()
	rec, cleanup, err := di.ProvideRecorder(cfg, l, nil, nil)
	if err != nil {
		return err
	}
	defer cleanup()
	if _, ok := rec.(repository.PredictionReader); !ok {
		return fmt.Errorf("recorder %s is not available", cfg.Recorder.Backend)
	}

	calc := usecase.NewROICalculator(usecase.NewResources(nil, nil, nil), di.ProvideSettings(cfg), nil, rec, metrics.Nop{}, l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	recs, err := calc.History(ctx, historyLimit)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(recs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  WHEN\tDEGREE\tMAJOR\tINSTITUTION\tINCOME\tROI")
	for _, r := range recs {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s%%\n",
			humanize.Time(r.CreatedAt),
			r.Profile.DegreeType,
			r.Profile.MajorField,
			r.Profile.InstitutionName,
			dollars(r.Result.PredictedIncome),
			humanize.FormatFloat("#,###.#", r.Result.ROIPercentage),
		)
	}
	return w.Flush()
}
