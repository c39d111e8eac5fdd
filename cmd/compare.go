package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/pipeline"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Average cost per person per day by travel mode and accommodation",
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

type comparison struct {
	Country         string            `json:"country" yaml:"country"`
	City            string            `json:"city" yaml:"city"`
	ByTravelMode    []model.GroupCost `json:"by_travel_mode" yaml:"by_travel_mode"`
	ByAccommodation []model.GroupCost `json:"by_accommodation" yaml:"by_accommodation"`
}

func runCompare(_ *cobra.Command, _ []string) error {
	eng, err := loadData()
	if err != nil {
		return err
	}

	q := pipeline.ResolveQuery(eng, baseQuery())
	c := comparison{
		Country:         q.Country,
		City:            q.City,
		ByTravelMode:    eng.GroupedByTravelMode(q.Country, q.City),
		ByAccommodation: eng.GroupedByAccommodation(q.Country, q.City),
	}
	if ok, err := structured(c); ok {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COMPARISON  %s, %s", q.City, q.Country)))
	fmt.Println()
	printComparison("By Travel Mode", c.ByTravelMode, cheapestOf(c.ByTravelMode))
	printComparison("By Accommodation", c.ByAccommodation, cheapestOf(c.ByAccommodation))
	return nil
}

func cheapestOf(groups []model.GroupCost) *model.GroupCost {
	if c, ok := pipeline.Cheapest(groups); ok {
		return &c
	}
	return nil
}

func printComparison(title string, groups []model.GroupCost, cheapest *model.GroupCost) {
	fmt.Printf("  %s\n", title)
	if len(groups) == 0 {
		fmt.Println(cli.RenderNotice("No trips recorded for this city."))
		fmt.Println()
		return
	}

	labelW := 0
	peak := 0.0
	for _, g := range groups {
		labelW = max(labelW, lipgloss.Width(g.Key))
		peak = max(peak, g.Average)
	}

	for _, g := range groups {
		isCheapest := cheapest != nil && g.Key == cheapest.Key
		note := fmt.Sprintf("%s  (%s)", money(g.Average), cli.FormatTrips(g.Trips))
		fmt.Println(cli.RenderHorizontalBar(g.Key, labelW, g.Average, peak, 30, note, isCheapest))
	}
	fmt.Println()
}
