package model

import "github.com/shopspring/decimal"

// Category is a budget breakdown bucket.
type Category string

// Breakdown categories, in presentation order.
const (
	Accommodation Category = "Accommodation"
	Transport     Category = "Transport"
	Food          Category = "Food"
	Activities    Category = "Activities"
)

// Categories lists every breakdown category in presentation order.
var Categories = []Category{Accommodation, Transport, Food, Activities}

// CategoryCost is the part of a budget assigned to one category.
type CategoryCost struct {
	Category Category        `json:"category" yaml:"category"`
	Share    decimal.Decimal `json:"share" yaml:"share"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// Estimate is a projected trip budget. It is computed on demand and never stored.
// The Breakdown amounts always sum to Total.
type Estimate struct {
	BaseDailyCost     decimal.Decimal `json:"base_daily_cost" yaml:"base_daily_cost"`
	SeasonMultiplier  decimal.Decimal `json:"season_multiplier" yaml:"season_multiplier"`
	AdjustedDailyCost decimal.Decimal `json:"adjusted_daily_cost" yaml:"adjusted_daily_cost"`
	Days              int             `json:"days" yaml:"days"`
	Companions        int             `json:"companions" yaml:"companions"`
	Total             decimal.Decimal `json:"total" yaml:"total"`
	Breakdown         []CategoryCost  `json:"breakdown" yaml:"breakdown"`
}

// Amount returns the breakdown amount for c, or zero if c is not present.
func (e Estimate) Amount(c Category) decimal.Decimal {
	for _, cc := range e.Breakdown {
		if cc.Category == c {
			return cc.Amount
		}
	}
	return decimal.Zero
}

// BreakdownSum adds up every breakdown amount.
func (e Estimate) BreakdownSum() decimal.Decimal {
	sum := decimal.Zero
	for _, cc := range e.Breakdown {
		sum = sum.Add(cc.Amount)
	}
	return sum
}
