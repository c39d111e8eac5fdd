package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/pipeline"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the countries in the dataset",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return printCatalog("Country", func(eng *pipeline.Engine) []string { return eng.Countries() })
	},
}

var citiesCmd = &cobra.Command{
	Use:   "cities <country>",
	Short: "List the cities recorded for a country",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return printCatalog("City", func(eng *pipeline.Engine) []string { return eng.Cities(args[0]) })
	},
}

var accommodationsCmd = &cobra.Command{
	Use:   "accommodations",
	Short: "List the accommodation types in the dataset",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return printCatalog("Accommodation", func(eng *pipeline.Engine) []string { return eng.AccommodationTypes() })
	},
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the travel modes in the dataset",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return printCatalog("Travel mode", func(eng *pipeline.Engine) []string { return eng.TravelModes() })
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd, citiesCmd, accommodationsCmd, modesCmd)
}

func printCatalog(header string, list func(*pipeline.Engine) []string) error {
	eng, err := loadData()
	if err != nil {
		return err
	}

	values := list(eng)
	if ok, err := structured(values); ok {
		return err
	}

	if len(values) == 0 {
		fmt.Println(cli.RenderNotice("Nothing recorded."))
		return nil
	}

	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{header}, Rows: rows}))
	return nil
}
