package budget

import "github.com/theirongolddev/tripcost/internal/model"

// seasonMultipliers scales a baseline daily cost for the travel season.
var seasonMultipliers = map[model.Season]float64{
	model.Summer: 1.2, // peak
	model.Winter: 0.8, // off season
	model.Spring: 1.0,
	model.Fall:   1.0,
}

// SeasonMultiplier returns the cost multiplier for a season label.
// Labels are matched exactly; anything unrecognized yields 1.0.
func SeasonMultiplier(season string) float64 {
	if m, ok := seasonMultipliers[model.Season(season)]; ok {
		return m
	}
	return 1.0
}
