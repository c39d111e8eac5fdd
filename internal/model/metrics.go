package model

// CostStats holds descriptive statistics of per-person-per-day cost over a
// filtered set of trips. All fields are zero when no trip matched.
type CostStats struct {
	Average float64 `json:"average" yaml:"average"`
	Minimum float64 `json:"minimum" yaml:"minimum"`
	Maximum float64 `json:"maximum" yaml:"maximum"`
	Median  float64 `json:"median" yaml:"median"`
	Trips   int     `json:"trips" yaml:"trips"`
}

// Empty reports whether the statistics were computed over no trips.
func (s CostStats) Empty() bool {
	return s.Trips == 0
}

// Estimable reports whether the statistics can seed a budget: at least one
// trip and a positive average cost.
func (s CostStats) Estimable() bool {
	return s.Trips > 0 && s.Average > 0
}

// GroupCost is one entry of a grouped cost map: the average per-person-per-day
// cost of the trips sharing Key.
type GroupCost struct {
	Key     string  `json:"key" yaml:"key"`
	Average float64 `json:"average" yaml:"average"`
	Trips   int     `json:"trips" yaml:"trips"`
}

// SeasonPoint is one season of a seasonal trend. Average is nil when no trip
// was recorded in that season.
type SeasonPoint struct {
	Season  Season   `json:"season" yaml:"season"`
	Average *float64 `json:"average" yaml:"average"`
	Trips   int      `json:"trips" yaml:"trips"`
}

// HasData reports whether the season has an average.
func (p SeasonPoint) HasData() bool {
	return p.Average != nil
}
