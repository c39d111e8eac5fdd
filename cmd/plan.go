package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/pipeline"
)

const noDataMessage = "No data available for the selected combination."

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Full planner report: statistics, budget, comparisons and seasons",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	eng, err := loadData()
	if err != nil {
		return err
	}
	if eng.Len() == 0 {
		fmt.Println("\n  No trips in the dataset.")
		return nil
	}

	report, err := pipeline.BuildReport(cmd.Context(), eng, pipeline.ResolveQuery(eng, baseQuery()))
	if err != nil {
		return err
	}
	if ok, err := structured(report); ok {
		return err
	}

	q := report.Query
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRIP PLAN  %s, %s", q.City, q.Country)))
	fmt.Printf("  %s · %d days · %d travelers · %s\n\n", q.Accommodation, q.Days, q.Travelers, q.Season)

	printStats(report.Stats)
	if report.Estimate != nil {
		printEstimate(*report.Estimate)
	}
	printComparison("By Travel Mode", report.ByTravelMode, report.CheapestMode)
	printComparison("By Accommodation", report.ByAccommodation, report.CheapestAccommodation)
	printSeasons(report.Seasons)
	printTips(report)
	return nil
}

func printTips(r *pipeline.Report) {
	if r.CheapestMode == nil && r.CheapestAccommodation == nil {
		return
	}
	fmt.Println("  Travel tips")
	if c := r.CheapestMode; c != nil {
		fmt.Printf("    Cheapest way to get around %s: %s (%s per person per day)\n",
			r.Query.City, c.Key, money(c.Average))
	}
	if c := r.CheapestAccommodation; c != nil {
		fmt.Printf("    Cheapest place to stay in %s: %s (%s per person per day)\n",
			r.Query.City, c.Key, money(c.Average))
	}
	fmt.Println()
}

func money(v float64) string {
	return cli.FormatMoney(v, cfg.General.Currency)
}
