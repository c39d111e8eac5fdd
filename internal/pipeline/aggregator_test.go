package pipeline

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/tripcost/internal/model"
)

func testTrips() []model.Trip {
	return []model.Trip{
		model.NewTrip("France", "Paris", "Hotel", "Plane", "Summer", 7, 2, 1400), // 100
		model.NewTrip("France", "Paris", "Hotel", "Train", "Winter", 5, 1, 300),  // 60
		model.NewTrip("France", "Paris", "Hostel", "Train", "Summer", 2, 2, 160), // 40
		model.NewTrip("France", "Paris", "Hotel", "Plane", "Spring", 1, 1, 80),   // 80
		model.NewTrip("France", "Lyon", "Airbnb", "Car", "Fall", 3, 1, 150),      // 50
		model.NewTrip("Italy", "Rome", "Hostel", "Bus", "Winter", 4, 1, 120),     // 30
		model.NewTrip("Italy", "Milan", "Hotel", "Train", "Summer", 2, 1, 200),   // 100
	}
}

func TestEngine_Catalogs(t *testing.T) {
	eng := NewEngine(testTrips())

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"countries", eng.Countries(), []string{"France", "Italy"}},
		{"cities France", eng.Cities("France"), []string{"Lyon", "Paris"}},
		{"cities Italy", eng.Cities("Italy"), []string{"Milan", "Rome"}},
		{"accommodations", eng.AccommodationTypes(), []string{"Airbnb", "Hostel", "Hotel"}},
		{"modes", eng.TravelModes(), []string{"Bus", "Car", "Plane", "Train"}},
	}
	for _, tt := range tests {
		if !reflect.DeepEqual(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestEngine_CitiesUnknownCountry(t *testing.T) {
	eng := NewEngine(testTrips())

	for _, country := range []string{"Spain", "france", ""} {
		got := eng.Cities(country)
		if got == nil || len(got) != 0 {
			t.Errorf("Cities(%q) = %#v, want empty non-nil slice", country, got)
		}
	}
}

func TestEngine_CostStatistics(t *testing.T) {
	eng := NewEngine(testTrips())

	got := eng.CostStatistics("France", "Paris", "Hotel")
	want := model.CostStats{Average: 80, Minimum: 60, Maximum: 100, Median: 80, Trips: 3}
	if got != want {
		t.Errorf("CostStatistics = %+v, want %+v", got, want)
	}
}

func TestEngine_CostStatisticsEmpty(t *testing.T) {
	eng := NewEngine(testTrips())

	for _, q := range [][3]string{
		{"France", "Paris", "Airbnb"},
		{"France", "Rome", "Hostel"},
		{"france", "Paris", "Hotel"},
		{"Spain", "Madrid", "Hotel"},
	} {
		got := eng.CostStatistics(q[0], q[1], q[2])
		if got != (model.CostStats{}) {
			t.Errorf("CostStatistics(%v) = %+v, want zero sentinel", q, got)
		}
		if !got.Empty() {
			t.Errorf("CostStatistics(%v).Empty() = false", q)
		}
	}
}

func TestEngine_Grouped(t *testing.T) {
	eng := NewEngine(testTrips())

	modes := eng.GroupedByTravelMode("France", "Paris")
	wantModes := []model.GroupCost{
		{Key: "Plane", Average: 90, Trips: 2},
		{Key: "Train", Average: 50, Trips: 2},
	}
	if !reflect.DeepEqual(modes, wantModes) {
		t.Errorf("GroupedByTravelMode = %+v, want %+v", modes, wantModes)
	}

	acc := eng.GroupedByAccommodation("France", "Paris")
	wantAcc := []model.GroupCost{
		{Key: "Hostel", Average: 40, Trips: 1},
		{Key: "Hotel", Average: 80, Trips: 3},
	}
	if !reflect.DeepEqual(acc, wantAcc) {
		t.Errorf("GroupedByAccommodation = %+v, want %+v", acc, wantAcc)
	}

	if got := eng.GroupedByTravelMode("France", "Nice"); len(got) != 0 {
		t.Errorf("GroupedByTravelMode(unknown city) = %v, want empty", got)
	}
}

func TestEngine_SeasonalTrend(t *testing.T) {
	eng := NewEngine(testTrips())

	points := eng.SeasonalTrend("France", "Paris")
	if len(points) != 4 {
		t.Fatalf("len = %d, want 4", len(points))
	}

	want := []struct {
		season model.Season
		avg    float64
		has    bool
	}{
		{model.Winter, 60, true},
		{model.Spring, 80, true},
		{model.Summer, 70, true},
		{model.Fall, 0, false},
	}
	for i, w := range want {
		p := points[i]
		if p.Season != w.season {
			t.Errorf("points[%d].Season = %s, want %s", i, p.Season, w.season)
		}
		if p.HasData() != w.has {
			t.Errorf("%s HasData = %v, want %v", p.Season, p.HasData(), w.has)
			continue
		}
		if w.has && *p.Average != w.avg {
			t.Errorf("%s Average = %v, want %v", p.Season, *p.Average, w.avg)
		}
	}

	for _, p := range eng.SeasonalTrend("Spain", "Madrid") {
		if p.HasData() {
			t.Errorf("SeasonalTrend(unknown) %s has data", p.Season)
		}
	}
}

func TestEngine_UnknownSeasonLabel(t *testing.T) {
	eng := NewEngine([]model.Trip{
		model.NewTrip("Spain", "Seville", "Hotel", "Plane", "Monsoon", 1, 1, 10),
		model.NewTrip("Spain", "Seville", "Hotel", "Plane", "Summer", 1, 1, 30),
	})

	for _, p := range eng.SeasonalTrend("Spain", "Seville") {
		if p.Season == model.Summer {
			if !p.HasData() || *p.Average != 30 {
				t.Errorf("Summer = %v, want 30", p.Average)
			}
		} else if p.HasData() {
			t.Errorf("%s has data, want none", p.Season)
		}
	}

	if got := eng.CostStatistics("Spain", "Seville", "Hotel"); got.Trips != 2 {
		t.Errorf("Trips = %d, want 2 (unknown season kept)", got.Trips)
	}
}

func TestNewEngine_CopiesInput(t *testing.T) {
	trips := testTrips()
	eng := NewEngine(trips)
	trips[0].Country = "Mutated"

	if got := eng.Countries(); !reflect.DeepEqual(got, []string{"France", "Italy"}) {
		t.Errorf("Countries after caller mutation = %v", got)
	}
	if eng.Len() != 7 {
		t.Errorf("Len = %d, want 7", eng.Len())
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   model.CostStats
	}{
		{"empty", nil, model.CostStats{}},
		{"single", []float64{5}, model.CostStats{Average: 5, Minimum: 5, Maximum: 5, Median: 5, Trips: 1}},
		{"odd", []float64{9, 1, 5}, model.CostStats{Average: 5, Minimum: 1, Maximum: 9, Median: 5, Trips: 3}},
		{"even", []float64{4, 1, 3, 2}, model.CostStats{Average: 2.5, Minimum: 1, Maximum: 4, Median: 2.5, Trips: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.values); got != tt.want {
				t.Errorf("Describe(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestDescribe_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Describe(values)
	if !reflect.DeepEqual(values, []float64{3, 1, 2}) {
		t.Errorf("input reordered: %v", values)
	}
}

func TestCheapest(t *testing.T) {
	if _, ok := Cheapest(nil); ok {
		t.Error("Cheapest(nil) ok = true, want false")
	}

	got, ok := Cheapest([]model.GroupCost{
		{Key: "Bus", Average: 20},
		{Key: "Car", Average: 10},
		{Key: "Train", Average: 10},
	})
	if !ok || got.Key != "Car" {
		t.Errorf("Cheapest = %+v, %v; want Car", got, ok)
	}
}
