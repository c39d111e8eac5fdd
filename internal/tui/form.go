package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/tripcost/internal/config"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/pipeline"
	"github.com/theirongolddev/tripcost/internal/source"
	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

// tripValues backs the fields of the trip form. Counts are kept as text
// because huh inputs edit strings.
type tripValues struct {
	country       string
	city          string
	accommodation string
	season        string
	days          string
	travelers     string
}

func newTripValues(q pipeline.Query) *tripValues {
	return &tripValues{
		country:       q.Country,
		city:          q.City,
		accommodation: q.Accommodation,
		season:        q.Season,
		days:          strconv.Itoa(q.Days),
		travelers:     strconv.Itoa(q.Travelers),
	}
}

// apply returns q updated with the form answers. Counts that do not parse as
// positive integers keep their previous value.
func (v *tripValues) apply(q pipeline.Query) pipeline.Query {
	q.Country = v.country
	q.City = v.city
	q.Accommodation = v.accommodation
	q.Season = v.season
	if n, err := parsePositive(v.days); err == nil {
		q.Days = n
	}
	if n, err := parsePositive(v.travelers); err == nil {
		q.Travelers = n
	}
	return q
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("enter a whole number")
	}
	if n < 1 {
		return 0, errors.New("must be at least 1")
	}
	return n, nil
}

func validatePositive(s string) error {
	_, err := parsePositive(s)
	return err
}

func seasonNames() []string {
	names := make([]string, len(model.Seasons))
	for i, s := range model.Seasons {
		names[i] = string(s)
	}
	return names
}

// newTripForm builds the destination and trip shape form. The city list
// follows the selected country.
func newTripForm(eng *pipeline.Engine, v *tripValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Country").
				Options(huh.NewOptions(eng.Countries()...)...).
				Height(8).
				Value(&v.country),
			huh.NewSelect[string]().
				Title("City").
				OptionsFunc(func() []huh.Option[string] {
					return huh.NewOptions(eng.Cities(v.country)...)
				}, &v.country).
				Height(8).
				Value(&v.city),
			huh.NewSelect[string]().
				Title("Accommodation").
				Options(huh.NewOptions(eng.AccommodationTypes()...)...).
				Value(&v.accommodation),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Season").
				Options(huh.NewOptions(seasonNames()...)...).
				Value(&v.season),
			huh.NewInput().
				Title("Days").
				Value(&v.days).
				Validate(validatePositive),
			huh.NewInput().
				Title("Travelers").
				Value(&v.travelers).
				Validate(validatePositive),
		),
	).WithTheme(huh.ThemeBase16()).WithShowHelp(true)
}

// SetupValues backs the fields of the setup form.
type SetupValues struct {
	Dataset   string
	Currency  string
	Theme     string
	Season    string
	Days      string
	Travelers string
	Format    string
}

// SetupValuesFrom seeds the setup form with the current configuration.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		Dataset:   cfg.General.Dataset,
		Currency:  cfg.General.Currency,
		Theme:     cfg.Appearance.Theme,
		Season:    cfg.General.DefaultSeason,
		Days:      strconv.Itoa(cfg.General.DefaultDays),
		Travelers: strconv.Itoa(cfg.General.DefaultTravelers),
		Format:    cfg.Output.Format,
	}
}

// Apply copies the answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) error {
	days, err := parsePositive(v.Days)
	if err != nil {
		return fmt.Errorf("default days: %w", err)
	}
	travelers, err := parsePositive(v.Travelers)
	if err != nil {
		return fmt.Errorf("default travelers: %w", err)
	}

	cfg.General.Dataset = strings.TrimSpace(v.Dataset)
	cfg.General.Currency = strings.TrimSpace(v.Currency)
	cfg.General.DefaultSeason = v.Season
	cfg.General.DefaultDays = days
	cfg.General.DefaultTravelers = travelers
	cfg.Appearance.Theme = v.Theme
	cfg.Output.Format = v.Format
	return nil
}

func validateDataset(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("a dataset path is required")
	}
	_, err := source.Resolve(path)
	return err
}

// NewSetupForm builds the first-run configuration form.
func NewSetupForm(v *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to tripcost").
				Description("Estimate trip budgets from historical travel costs.\nThese answers are saved to "+config.ConfigPath()+"."),
			huh.NewInput().
				Title("Trip dataset (CSV)").
				Placeholder("/path/to/travel_costs.csv").
				Value(&v.Dataset).
				Validate(validateDataset),
			huh.NewInput().
				Title("Currency symbol").
				Value(&v.Currency),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default season").
				Options(huh.NewOptions(seasonNames()...)...).
				Value(&v.Season),
			huh.NewInput().
				Title("Default days").
				Value(&v.Days).
				Validate(validatePositive),
			huh.NewInput().
				Title("Default travelers").
				Value(&v.Travelers).
				Validate(validatePositive),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Output format").
				Options(huh.NewOptions(config.FormatTable, config.FormatJSON, config.FormatYAML)...).
				Value(&v.Format),
		),
	).WithTheme(huh.ThemeBase16())
}
