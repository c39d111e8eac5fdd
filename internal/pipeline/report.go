package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/tripcost/internal/budget"
	"github.com/theirongolddev/tripcost/internal/model"
)

// Query is one planner request: a destination, an accommodation type and the
// shape of the trip.
type Query struct {
	Country       string `json:"country" yaml:"country"`
	City          string `json:"city" yaml:"city"`
	Accommodation string `json:"accommodation_type" yaml:"accommodation_type"`
	Days          int    `json:"days" yaml:"days"`
	Travelers     int    `json:"travelers" yaml:"travelers"`
	Season        string `json:"season" yaml:"season"`
}

// ResolveQuery fills an empty country, city or accommodation with the first
// entry of the matching catalog. Other fields are left untouched.
func ResolveQuery(eng *Engine, q Query) Query {
	if q.Country == "" {
		q.Country = first(eng.Countries())
	}
	if q.City == "" {
		q.City = first(eng.Cities(q.Country))
	}
	if q.Accommodation == "" {
		q.Accommodation = first(eng.AccommodationTypes())
	}
	return q
}

// Report is everything the planner shows for one query.
type Report struct {
	Query           Query               `json:"query" yaml:"query"`
	Stats           model.CostStats     `json:"stats" yaml:"stats"`
	Estimate        *model.Estimate     `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	ByTravelMode    []model.GroupCost   `json:"by_travel_mode" yaml:"by_travel_mode"`
	ByAccommodation []model.GroupCost   `json:"by_accommodation" yaml:"by_accommodation"`
	Seasons         []model.SeasonPoint `json:"seasons" yaml:"seasons"`

	CheapestMode          *model.GroupCost `json:"cheapest_travel_mode,omitempty" yaml:"cheapest_travel_mode,omitempty"`
	CheapestAccommodation *model.GroupCost `json:"cheapest_accommodation,omitempty" yaml:"cheapest_accommodation,omitempty"`
}

// HasData reports whether the query produced an estimate.
func (r *Report) HasData() bool {
	return r.Estimate != nil
}

// BuildReport answers every planner question for q. The engine is read-only,
// so the queries run concurrently. An estimate is produced only when matched
// trips have a positive average cost; Days and Travelers are validated either
// way.
func BuildReport(ctx context.Context, eng *Engine, q Query) (*Report, error) {
	if _, err := budget.ForSeason(0, q.Days, q.Travelers, q.Season); err != nil {
		return nil, err
	}

	r := &Report{Query: q}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Stats = eng.CostStatistics(q.Country, q.City, q.Accommodation)
		if !r.Stats.Estimable() {
			return nil
		}
		est, err := budget.ForSeason(r.Stats.Average, q.Days, q.Travelers, q.Season)
		if err != nil {
			return err
		}
		r.Estimate = &est
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.ByTravelMode = eng.GroupedByTravelMode(q.Country, q.City)
		if c, ok := Cheapest(r.ByTravelMode); ok {
			r.CheapestMode = &c
		}
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.ByAccommodation = eng.GroupedByAccommodation(q.Country, q.City)
		if c, ok := Cheapest(r.ByAccommodation); ok {
			r.CheapestAccommodation = &c
		}
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Seasons = eng.SeasonalTrend(q.Country, q.City)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
