package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/budget"
	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/pipeline"
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "Seasonal trend of the average cost per person per day",
	RunE:  runSeasons,
}

func init() {
	rootCmd.AddCommand(seasonsCmd)
}

type seasonalTrend struct {
	Country string              `json:"country" yaml:"country"`
	City    string              `json:"city" yaml:"city"`
	Seasons []model.SeasonPoint `json:"seasons" yaml:"seasons"`
}

func runSeasons(_ *cobra.Command, _ []string) error {
	eng, err := loadData()
	if err != nil {
		return err
	}

	q := pipeline.ResolveQuery(eng, baseQuery())
	trend := seasonalTrend{Country: q.Country, City: q.City, Seasons: eng.SeasonalTrend(q.Country, q.City)}
	if ok, err := structured(trend); ok {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SEASONAL TREND  %s, %s", q.City, q.Country)))
	fmt.Println()
	printSeasons(trend.Seasons)
	return nil
}

func printSeasons(points []model.SeasonPoint) {
	values := make([]float64, len(points))
	present := make([]bool, len(points))
	rows := make([][]string, len(points))
	for i, p := range points {
		avg := "-"
		if p.HasData() {
			values[i] = *p.Average
			present[i] = true
			avg = money(*p.Average)
		}
		rows[i] = []string{
			string(p.Season),
			cli.FormatMultiplier(budget.SeasonMultiplier(string(p.Season))),
			avg,
			cli.FormatNumber(int64(p.Trips)),
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Seasons  " + cli.RenderSparkline(values, present),
		Headers: []string{"Season", "Budget", "Avg / Person / Day", "Trips"},
		Rows:    rows,
	}))

	if chart := cli.RenderSeasonChart(points, 40, 8, "Winter → Fall, average cost per person per day"); chart != "" {
		fmt.Println()
		fmt.Println(chart)
	}
	fmt.Println()
}
