// Package model defines domain types for tripcost datasets, statistics and budgets.
package model

// Season is the travel season label recorded for a trip.
type Season string

// Known seasons.
const (
	Winter Season = "Winter"
	Spring Season = "Spring"
	Summer Season = "Summer"
	Fall   Season = "Fall"
)

// Seasons lists the known seasons in calendar order, starting with Winter.
var Seasons = []Season{Winter, Spring, Summer, Fall}

// Trip is one row of the historical travel dataset.
// Trips are values; nothing mutates them after load.
type Trip struct {
	Line          int    `json:"line,omitempty" yaml:"line,omitempty"`
	Country       string `json:"country" yaml:"country"`
	City          string `json:"city" yaml:"city"`
	Accommodation string `json:"accommodation_type" yaml:"accommodation_type"`
	TravelMode    string `json:"travel_mode" yaml:"travel_mode"`
	Season        string `json:"season" yaml:"season"`

	DurationDays int     `json:"duration_days" yaml:"duration_days"`
	Companions   int     `json:"companions" yaml:"companions"`
	TotalCost    float64 `json:"total_cost" yaml:"total_cost"`

	CostPerPersonDay float64 `json:"cost_per_person_day" yaml:"cost_per_person_day"`
}

// NewTrip builds a Trip and derives its per-person-per-day cost.
// Callers must have validated durationDays >= 1 and companions >= 1.
func NewTrip(country, city, accommodation, travelMode, season string, durationDays, companions int, totalCost float64) Trip {
	return Trip{
		Country:          country,
		City:             city,
		Accommodation:    accommodation,
		TravelMode:       travelMode,
		Season:           season,
		DurationDays:     durationDays,
		Companions:       companions,
		TotalCost:        totalCost,
		CostPerPersonDay: totalCost / float64(companions*durationDays),
	}
}
