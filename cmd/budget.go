package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/budget"
	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/pipeline"
)

var flagBase float64

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Estimate a trip budget and its breakdown",
	Long: "Estimate a trip budget. With --base the daily cost per person is taken as given;\n" +
		"otherwise it is the historical average for the destination and accommodation.",
	RunE: runBudget,
}

func init() {
	budgetCmd.Flags().Float64Var(&flagBase, "base", 0, "Base daily cost per person (skips the dataset)")
	rootCmd.AddCommand(budgetCmd)
}

type budgetResult struct {
	Query    pipeline.Query  `json:"query" yaml:"query"`
	Estimate *model.Estimate `json:"estimate,omitempty" yaml:"estimate,omitempty"`
}

func runBudget(cmd *cobra.Command, _ []string) error {
	q := baseQuery()

	var base float64
	if cmd.Flags().Changed("base") {
		base = flagBase
	} else {
		eng, err := loadData()
		if err != nil {
			return err
		}
		q = pipeline.ResolveQuery(eng, q)
		stats := eng.CostStatistics(q.Country, q.City, q.Accommodation)
		if !stats.Estimable() {
			if ok, err := structured(budgetResult{Query: q}); ok {
				return err
			}
			fmt.Println()
			fmt.Println(cli.RenderNotice(noDataMessage))
			fmt.Println()
			return nil
		}
		base = stats.Average
	}

	est, err := budget.ForSeason(base, q.Days, q.Travelers, q.Season)
	if err != nil {
		return err
	}
	if ok, err := structured(budgetResult{Query: q, Estimate: &est}); ok {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %d days · %d travelers · %s", q.Days, q.Travelers, q.Season)))
	fmt.Println()
	printEstimate(est)
	return nil
}

func printEstimate(est model.Estimate) {
	cur := cfg.General.Currency

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Estimated Budget",
		Headers: []string{"", "Value"},
		Rows: [][]string{
			{"Base cost / person / day", cli.FormatDecimal(est.BaseDailyCost, cur)},
			{"Season multiplier", cli.FormatMultiplier(est.SeasonMultiplier.InexactFloat64())},
			{"Adjusted cost / person / day", cli.FormatDecimal(est.AdjustedDailyCost, cur)},
			{"Days", fmt.Sprintf("%d", est.Days)},
			{"Travelers", fmt.Sprintf("%d", est.Companions)},
			{"---"},
			{"Total", cli.FormatDecimal(est.Total, cur)},
		},
	}))
	fmt.Println()

	rows := make([][]string, 0, len(est.Breakdown)+2)
	for _, cc := range est.Breakdown {
		rows = append(rows, []string{
			string(cc.Category),
			cli.RenderShareBar(cc.Share.InexactFloat64(), 20),
			cli.FormatDecimal(cc.Amount, cur),
		})
	}
	rows = append(rows, []string{"---"}, []string{"Total", "", cli.FormatDecimal(est.BreakdownSum(), cur)})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Breakdown",
		Headers: []string{"Category", "Share", "Amount"},
		Rows:    rows,
	}))
	fmt.Println()
}
