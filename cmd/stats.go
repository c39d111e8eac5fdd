package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/pipeline"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Cost per person per day for a destination and accommodation",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

type statsResult struct {
	Country         string `json:"country" yaml:"country"`
	City            string `json:"city" yaml:"city"`
	Accommodation   string `json:"accommodation_type" yaml:"accommodation_type"`
	model.CostStats `yaml:",inline"`
}

func runStats(_ *cobra.Command, _ []string) error {
	eng, err := loadData()
	if err != nil {
		return err
	}

	q := pipeline.ResolveQuery(eng, baseQuery())
	stats := eng.CostStatistics(q.Country, q.City, q.Accommodation)

	if ok, err := structured(statsResult{q.Country, q.City, q.Accommodation, stats}); ok {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COST STATISTICS  %s, %s · %s", q.City, q.Country, q.Accommodation)))
	fmt.Println()
	printStats(stats)
	return nil
}

func printStats(stats model.CostStats) {
	if stats.Empty() {
		fmt.Println(cli.RenderNotice(noDataMessage))
		fmt.Println()
		return
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Cost per Person per Day",
		Headers: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Average", money(stats.Average)},
			{"Median", money(stats.Median)},
			{"Minimum", money(stats.Minimum)},
			{"Maximum", money(stats.Maximum)},
			{"---"},
			{"Based on", cli.FormatTrips(stats.Trips)},
		},
	}))
	fmt.Println()
}
