// Package cmd implements the tripcost CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/config"
	"github.com/theirongolddev/tripcost/internal/logging"
	"github.com/theirongolddev/tripcost/internal/pipeline"
	"github.com/theirongolddev/tripcost/internal/store"
)

var (
	flagData     string
	flagNoCache  bool
	flagQuiet    bool
	flagOutput   string
	flagLogLevel string

	flagCountry       string
	flagCity          string
	flagAccommodation string
	flagDays          int
	flagTravelers     int
	flagSeason        string
)

// cfg is the loaded configuration with flag overrides applied.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "tripcost",
	Short: "Trip cost planner",
	Long: "Estimate trip budgets from a dataset of historical travel costs: cost statistics,\n" +
		"a seasonal budget with its breakdown, and transport and accommodation comparisons.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Assigned here: runPlan reads rootCmd's flags, so it cannot appear in
	// rootCmd's initializer.
	rootCmd.RunE = runPlan

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagData, "data", "f", "", "Trip dataset CSV file or directory holding one")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite cache and reparse the dataset")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.StringVarP(&flagOutput, "output", "o", "", "Output format: table, json or yaml")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")

	pf.StringVarP(&flagCountry, "country", "c", "", "Destination country (default: first in dataset)")
	pf.StringVar(&flagCity, "city", "", "Destination city (default: first in country)")
	pf.StringVarP(&flagAccommodation, "accommodation", "a", "", "Accommodation type (default: first in dataset)")
	pf.IntVarP(&flagDays, "days", "n", 0, "Trip length in days (default from config)")
	pf.IntVarP(&flagTravelers, "travelers", "t", 0, "Number of travelers (default from config)")
	pf.StringVarP(&flagSeason, "season", "s", "", "Season: Winter, Spring, Summer or Fall (default from config)")
}

// prepare loads the config, applies flag overrides and sets up logging.
func prepare(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	if flagOutput != "" {
		cfg.Output.Format = flagOutput
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagData != "" {
		cfg.General.Dataset = flagData
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return logging.Setup(cfg.Log.Level, os.Stderr)
}

func flagChanged(name string) bool {
	f := rootCmd.PersistentFlags().Lookup(name)
	return f != nil && f.Changed
}

// baseQuery builds the planner query from flags, falling back to the
// configured defaults for days, travelers and season.
func baseQuery() pipeline.Query {
	q := pipeline.Query{
		Country:       flagCountry,
		City:          flagCity,
		Accommodation: flagAccommodation,
		Days:          cfg.General.DefaultDays,
		Travelers:     cfg.General.DefaultTravelers,
		Season:        cfg.General.DefaultSeason,
	}
	if flagChanged("days") {
		q.Days = flagDays
	}
	if flagChanged("travelers") {
		q.Travelers = flagTravelers
	}
	if flagSeason != "" {
		q.Season = flagSeason
	}
	return q
}

var errNoDataset = errors.New("no dataset configured: pass --data, set TRIPCOST_DATASET or run `tripcost setup`")

func datasetPath() (string, error) {
	if cfg.General.Dataset == "" {
		return "", errNoDataset
	}
	return cfg.General.Dataset, nil
}

// loadData is the shared data loading path used by all commands.
// Uses the SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.Engine, error) {
	path, err := datasetPath()
	if err != nil {
		return nil, err
	}

	progressFn := func(rows int) {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r  Reading trips [%s rows]", cli.FormatNumber(int64(rows)))
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			log.WithError(err).Warn("cache unavailable, doing full parse")
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(path, cache, progressFn)
			if err == nil {
				reportLoad(&cr.LoadResult, cr.FromCache)
				return pipeline.NewEngine(cr.Trips), nil
			}
			log.WithError(err).Warn("cached load failed, falling back to full parse")
		}
	}

	result, err := pipeline.Load(path, progressFn)
	if err != nil {
		if !flagQuiet {
			fmt.Fprintln(os.Stderr)
		}
		return nil, err
	}
	reportLoad(result, false)
	return pipeline.NewEngine(result.Trips), nil
}

func reportLoad(lr *pipeline.LoadResult, fromCache bool) {
	if flagQuiet {
		return
	}
	how := "parsed"
	if fromCache {
		how = "cached"
	}
	fmt.Fprintf(os.Stderr, "\r  Loaded %s (%s)", cli.FormatTrips(len(lr.Trips)), how)
	if lr.RejectedCount > 0 {
		fmt.Fprintf(os.Stderr, ", skipped %s malformed", cli.FormatNumber(int64(lr.RejectedCount)))
	}
	fmt.Fprintln(os.Stderr, "        ")
}

// structured writes v as JSON or YAML when that output format is selected.
func structured(v any) (bool, error) {
	return cli.WriteStructured(os.Stdout, cfg.Output.Format, v)
}
