// Package budget projects multi-day, multi-traveler trip budgets from a
// per-person-per-day cost.
package budget

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/tripcost/internal/model"
)

// ErrInvalidArgument is returned for inputs the calculator cannot project.
var ErrInvalidArgument = errors.New("invalid argument")

// shares splits the adjusted daily cost across categories. They sum to 1.
var shares = map[model.Category]decimal.Decimal{
	model.Accommodation: decimal.RequireFromString("0.40"),
	model.Transport:     decimal.RequireFromString("0.30"),
	model.Food:          decimal.RequireFromString("0.20"),
	model.Activities:    decimal.RequireFromString("0.10"),
}

// Share returns the fixed proportion of the budget assigned to c.
func Share(c model.Category) decimal.Decimal {
	return shares[c]
}

// Input holds the parameters of a budget calculation.
type Input struct {
	BaseDailyCost float64
	Days          int
	Companions    int
	// SeasonMultiplier scales BaseDailyCost. Zero means not supplied (1.0).
	SeasonMultiplier float64
}

// Calculate projects the total cost of a trip and splits it by category.
//
// The adjusted daily cost is BaseDailyCost * SeasonMultiplier. The total and
// every category amount are scaled by Days * Companions, so the breakdown sums
// to the total exactly.
func Calculate(in Input) (model.Estimate, error) {
	if err := validate(in); err != nil {
		return model.Estimate{}, err
	}

	mult := in.SeasonMultiplier
	if mult == 0 {
		mult = 1.0
	}

	base := decimal.NewFromFloat(in.BaseDailyCost)
	multiplier := decimal.NewFromFloat(mult)
	adjusted := base.Mul(multiplier)
	scale := decimal.NewFromInt(int64(in.Days)).Mul(decimal.NewFromInt(int64(in.Companions)))

	est := model.Estimate{
		BaseDailyCost:     base,
		SeasonMultiplier:  multiplier,
		AdjustedDailyCost: adjusted,
		Days:              in.Days,
		Companions:        in.Companions,
		Total:             adjusted.Mul(scale),
		Breakdown:         make([]model.CategoryCost, 0, len(model.Categories)),
	}

	for _, c := range model.Categories {
		share := Share(c)
		est.Breakdown = append(est.Breakdown, model.CategoryCost{
			Category: c,
			Share:    share,
			Amount:   adjusted.Mul(share).Mul(scale),
		})
	}

	return est, nil
}

// ForSeason calculates an estimate using the multiplier for season.
func ForSeason(baseDailyCost float64, days, companions int, season string) (model.Estimate, error) {
	return Calculate(Input{
		BaseDailyCost:    baseDailyCost,
		Days:             days,
		Companions:       companions,
		SeasonMultiplier: SeasonMultiplier(season),
	})
}

func validate(in Input) error {
	if in.Days < 1 {
		return fmt.Errorf("%w: days must be at least 1, got %d", ErrInvalidArgument, in.Days)
	}
	if in.Companions < 1 {
		return fmt.Errorf("%w: companions must be at least 1, got %d", ErrInvalidArgument, in.Companions)
	}
	if math.IsNaN(in.BaseDailyCost) || math.IsInf(in.BaseDailyCost, 0) {
		return fmt.Errorf("%w: base daily cost must be finite", ErrInvalidArgument)
	}
	if in.BaseDailyCost < 0 {
		return fmt.Errorf("%w: base daily cost must not be negative, got %g", ErrInvalidArgument, in.BaseDailyCost)
	}
	if math.IsNaN(in.SeasonMultiplier) || math.IsInf(in.SeasonMultiplier, 0) || in.SeasonMultiplier < 0 {
		return fmt.Errorf("%w: season multiplier must be a finite non-negative number, got %g", ErrInvalidArgument, in.SeasonMultiplier)
	}
	return nil
}
