package main

import (
	"encoding/json"
	"fmt"
	"os"

	"CollegeROI/internal/di"
	"CollegeROI/internal/repository"
	"CollegeROI/internal/usecase"
	"CollegeROI/pkg/config"
	"CollegeROI/pkg/logger"
	"CollegeROI/pkg/metrics"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagJSON    bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "roictl",
	Short:         "College ROI calculator",
	Long:          "Compute degree ROI, loan amortization and institution lookups offline, using the service configuration.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "config/config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log loading progress to stderr")
}

func loadConfig() (*config.Config, error) {
	return config.LoadWithEnv(flagConfig)
}

func cliLogger() *logger.Logger {
	if !flagVerbose {
		return logger.NewNop()
	}
	l, err := logger.New(&logger.Config{Level: "debug", Format: "console", Output: "stderr"})
	if err != nil {
		return logger.NewNop()
	}
	return l
}

// newCalculator builds the same resources the service uses. Nothing is recorded.
func newCalculator(cfg *config.Config) (*usecase.ROICalculator, error) {
	l := cliLogger()
	res := di.ProvideResources(cfg, l, nil, metrics.Nop{})
	if err := res.Ready(); err != nil {
		return nil, err
	}
	return usecase.NewROICalculator(res, di.ProvideSettings(cfg), nil, repository.NoopRecorder{}, metrics.Nop{}, l), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
