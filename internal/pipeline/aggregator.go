// Package pipeline loads trip datasets and answers cost queries over them.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/tripcost/internal/model"
)

// Engine answers catalog and cost queries over an immutable set of trips.
// It is safe for concurrent use; nothing mutates it after NewEngine returns.
type Engine struct {
	trips []model.Trip
}

// NewEngine builds an engine over a private copy of trips.
func NewEngine(trips []model.Trip) *Engine {
	own := make([]model.Trip, len(trips))
	copy(own, trips)
	return &Engine{trips: own}
}

// Len returns the number of trips in the engine.
func (e *Engine) Len() int {
	return len(e.trips)
}

// Countries returns every distinct country, sorted.
func (e *Engine) Countries() []string {
	return distinct(e.trips, func(t model.Trip) string { return t.Country })
}

// Cities returns the distinct cities visited in country, sorted.
// An unknown country yields an empty slice.
func (e *Engine) Cities(country string) []string {
	return distinct(e.inCountry(country), func(t model.Trip) string { return t.City })
}

// AccommodationTypes returns every distinct accommodation type across the
// whole dataset, sorted.
func (e *Engine) AccommodationTypes() []string {
	return distinct(e.trips, func(t model.Trip) string { return t.Accommodation })
}

// TravelModes returns every distinct travel mode across the whole dataset, sorted.
func (e *Engine) TravelModes() []string {
	return distinct(e.trips, func(t model.Trip) string { return t.TravelMode })
}

// CostStatistics describes the per-person-per-day cost of trips matching
// country, city and accommodation exactly. No match yields zero statistics.
func (e *Engine) CostStatistics(country, city, accommodation string) model.CostStats {
	matched := e.where(func(t model.Trip) bool {
		return t.Country == country && t.City == city && t.Accommodation == accommodation
	})
	return Describe(costs(matched))
}

// GroupedByTravelMode averages per-person-per-day cost by travel mode for one city.
func (e *Engine) GroupedByTravelMode(country, city string) []model.GroupCost {
	matched := e.inCity(country, city)
	return GroupBy(matched, func(t model.Trip) string { return t.TravelMode })
}

// GroupedByAccommodation averages per-person-per-day cost by accommodation type for one city.
func (e *Engine) GroupedByAccommodation(country, city string) []model.GroupCost {
	matched := e.inCity(country, city)
	return GroupBy(matched, func(t model.Trip) string { return t.Accommodation })
}

// SeasonalTrend returns the average per-person-per-day cost of one city for
// each season, always in Winter, Spring, Summer, Fall order. Seasons without
// trips have a nil Average.
func (e *Engine) SeasonalTrend(country, city string) []model.SeasonPoint {
	matched := e.inCity(country, city)
	bySeason := make(map[string]model.GroupCost)
	for _, g := range GroupBy(matched, func(t model.Trip) string { return t.Season }) {
		bySeason[g.Key] = g
	}

	points := make([]model.SeasonPoint, len(model.Seasons))
	for i, s := range model.Seasons {
		points[i].Season = s
		if g, ok := bySeason[string(s)]; ok {
			avg := g.Average
			points[i].Average = &avg
			points[i].Trips = g.Trips
		}
	}
	return points
}

// where returns the trips satisfying pred. Matching is always exact; an empty
// argument only matches an empty field.
func (e *Engine) where(pred func(model.Trip) bool) []model.Trip {
	var matched []model.Trip
	for _, t := range e.trips {
		if pred(t) {
			matched = append(matched, t)
		}
	}
	return matched
}

func (e *Engine) inCountry(country string) []model.Trip {
	return e.where(func(t model.Trip) bool { return t.Country == country })
}

func (e *Engine) inCity(country, city string) []model.Trip {
	return e.where(func(t model.Trip) bool { return t.Country == country && t.City == city })
}

// GroupBy groups trips by keyFn and averages their per-person-per-day cost.
// Only keys with at least one trip appear; the result is sorted by key.
func GroupBy(trips []model.Trip, keyFn func(model.Trip) string) []model.GroupCost {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, t := range trips {
		k := keyFn(t)
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.sum += t.CostPerPersonDay
		g.count++
	}

	result := make([]model.GroupCost, 0, len(groups))
	for k, g := range groups {
		result = append(result, model.GroupCost{
			Key:     k,
			Average: g.sum / float64(g.count),
			Trips:   g.count,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// Cheapest returns the group with the lowest average. Ties go to the first key.
func Cheapest(groups []model.GroupCost) (model.GroupCost, bool) {
	if len(groups) == 0 {
		return model.GroupCost{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Average < best.Average {
			best = g
		}
	}
	return best, true
}

func distinct(trips []model.Trip, field func(model.Trip) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, t := range trips {
		v := field(t)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func costs(trips []model.Trip) []float64 {
	values := make([]float64, len(trips))
	for i, t := range trips {
		values[i] = t.CostPerPersonDay
	}
	return values
}
