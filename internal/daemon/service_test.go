package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/pipeline"
)

const header = "Country_Visited,City_Visited,Accommodation_Type,Mode_of_Travel,Season_of_Visit,Travel_Duration_Days,Number_of_Companions,Total_Travel_Cost"

func writeDataset(t *testing.T, path string, rows ...string) {
	t.Helper()
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func newTestService(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trips.csv")
	writeDataset(t, path,
		"France,Paris,Hotel,Plane,Summer,7,2,1400",
		"France,Paris,Hotel,Train,Winter,5,1,300",
		"France,Paris,Hostel,Train,Summer,2,2,160",
		"Italy,Rome,Hostel,Bus,Winter,4,1,120",
		"Italy,Rome,Hostel,Bus,Winter,0,1,120",
	)

	s := New(Config{Dataset: path, Defaults: pipeline.Query{Days: 7, Travelers: 2, Season: "Spring"}})
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func getJSON(t *testing.T, srv *httptest.Server, path string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", path, resp.StatusCode, wantStatus)
	}
	if v == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
}

func TestAPI_Catalogs(t *testing.T) {
	_, srv := newTestService(t)

	var countries []string
	getJSON(t, srv, "/v1/countries", http.StatusOK, &countries)
	if strings.Join(countries, ",") != "France,Italy" {
		t.Errorf("countries = %v", countries)
	}

	var cities []string
	getJSON(t, srv, "/v1/cities?country=Spain", http.StatusOK, &cities)
	if cities == nil || len(cities) != 0 {
		t.Errorf("cities(Spain) = %#v, want []", cities)
	}

	var modes []string
	getJSON(t, srv, "/v1/modes", http.StatusOK, &modes)
	if strings.Join(modes, ",") != "Bus,Plane,Train" {
		t.Errorf("modes = %v", modes)
	}
}

func TestAPI_Stats(t *testing.T) {
	_, srv := newTestService(t)

	var stats model.CostStats
	getJSON(t, srv, "/v1/stats?country=France&city=Paris&accommodation=Hotel", http.StatusOK, &stats)
	if stats.Average != 80 || stats.Minimum != 60 || stats.Maximum != 100 || stats.Trips != 2 {
		t.Errorf("stats = %+v", stats)
	}

	var empty model.CostStats
	getJSON(t, srv, "/v1/stats?country=France&city=Paris&accommodation=Airbnb", http.StatusOK, &empty)
	if empty != (model.CostStats{}) {
		t.Errorf("empty stats = %+v, want zero", empty)
	}
}

func TestAPI_CompareAndSeasons(t *testing.T) {
	_, srv := newTestService(t)

	var cmp Comparison
	getJSON(t, srv, "/v1/compare?country=France&city=Paris", http.StatusOK, &cmp)
	if len(cmp.ByTravelMode) != 2 || len(cmp.ByAccommodation) != 2 {
		t.Errorf("compare = %+v", cmp)
	}

	var seasons []model.SeasonPoint
	getJSON(t, srv, "/v1/seasons?country=France&city=Paris", http.StatusOK, &seasons)
	if len(seasons) != 4 {
		t.Fatalf("len(seasons) = %d, want 4", len(seasons))
	}
	if seasons[0].Average == nil || *seasons[0].Average != 60 {
		t.Errorf("Winter = %v, want 60", seasons[0].Average)
	}
	if seasons[1].Average != nil {
		t.Errorf("Spring = %v, want null", *seasons[1].Average)
	}
}

func TestAPI_Budget(t *testing.T) {
	_, srv := newTestService(t)

	var est struct {
		Total     string `json:"total"`
		Breakdown []struct {
			Category string `json:"category"`
			Amount   string `json:"amount"`
		} `json:"breakdown"`
	}
	getJSON(t, srv, "/v1/budget?base=100&days=7&travelers=2&season=Summer", http.StatusOK, &est)
	if est.Total != "1680" {
		t.Errorf("total = %s, want 1680", est.Total)
	}
	if len(est.Breakdown) != 4 || est.Breakdown[0].Amount != "672" {
		t.Errorf("breakdown = %+v", est.Breakdown)
	}

	getJSON(t, srv, "/v1/budget?country=France&city=Paris&accommodation=Hotel", http.StatusOK, nil)
	getJSON(t, srv, "/v1/budget?country=France&city=Paris&accommodation=Airbnb", http.StatusNotFound, nil)

	var apiErr map[string]string
	getJSON(t, srv, "/v1/budget?base=100&days=0", http.StatusBadRequest, &apiErr)
	if !strings.Contains(apiErr["error"], "invalid argument") {
		t.Errorf("error = %q", apiErr["error"])
	}
	getJSON(t, srv, "/v1/budget?base=abc", http.StatusBadRequest, nil)
	getJSON(t, srv, "/v1/budget?base=100&travelers=two", http.StatusBadRequest, nil)
}

func TestAPI_BudgetZeroCostTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.csv")
	writeDataset(t, path, "France,Paris,Camping,Bike,Summer,3,1,0")

	s := New(Config{Dataset: path, Defaults: pipeline.Query{Days: 7, Travelers: 2, Season: "Spring"}})
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	var stats model.CostStats
	getJSON(t, srv, "/v1/stats?country=France&city=Paris&accommodation=Camping", http.StatusOK, &stats)
	if stats.Trips != 1 || stats.Average != 0 {
		t.Errorf("stats = %+v, want 1 trip averaging 0", stats)
	}
	getJSON(t, srv, "/v1/budget?country=France&city=Paris&accommodation=Camping", http.StatusNotFound, nil)
}

func TestAPI_Plan(t *testing.T) {
	_, srv := newTestService(t)

	var report pipeline.Report
	getJSON(t, srv, "/v1/plan", http.StatusOK, &report)
	if report.Query.Country != "France" || report.Query.City != "Paris" || report.Query.Accommodation != "Hostel" {
		t.Errorf("resolved query = %+v", report.Query)
	}
	if report.Query.Days != 7 || report.Query.Travelers != 2 || report.Query.Season != "Spring" {
		t.Errorf("defaults = %+v", report.Query)
	}
	if report.Estimate == nil {
		t.Error("estimate missing")
	}
	if report.CheapestMode == nil || report.CheapestMode.Key != "Train" {
		t.Errorf("cheapest mode = %+v", report.CheapestMode)
	}

	getJSON(t, srv, "/v1/plan?days=-1", http.StatusBadRequest, nil)
}

func TestAPI_Status(t *testing.T) {
	_, srv := newTestService(t)

	var st Status
	getJSON(t, srv, "/v1/status", http.StatusOK, &st)
	if st.Summary.Trips != 4 || st.Summary.Rejected != 1 || st.Summary.Rows != 5 {
		t.Errorf("summary = %+v", st.Summary)
	}
	if st.LoadCount != 1 || st.EventCount != 1 {
		t.Errorf("load/event count = %d/%d, want 1/1", st.LoadCount, st.EventCount)
	}

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz = %d", resp.StatusCode)
	}
}

func TestLoad_FailureKeepsPreviousEngine(t *testing.T) {
	s, _ := newTestService(t)
	path := s.Status().Summary.Dataset

	if err := os.WriteFile(path, []byte("Country_Visited\nFrance\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(); err == nil {
		t.Fatal("Load with missing columns succeeded")
	}

	st := s.Status()
	if st.LastError == "" {
		t.Error("LastError not recorded")
	}
	if got := len(s.Engine().Countries()); got != 2 {
		t.Errorf("countries after failed reload = %d, want 2", got)
	}

	s.mu.RLock()
	last := s.events[len(s.events)-1]
	s.mu.RUnlock()
	if last.Type != EventReloadError {
		t.Errorf("last event = %s, want %s", last.Type, EventReloadError)
	}
}

func TestRun_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.csv")
	writeDataset(t, path, "France,Paris,Hotel,Plane,Summer,7,2,1400")

	s := New(Config{Dataset: path, Addr: "127.0.0.1:0", Debounce: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	waitFor(t, func() bool { return s.Status().Summary.Trips == 1 })

	writeDataset(t, path,
		"France,Paris,Hotel,Plane,Summer,7,2,1400",
		"Italy,Rome,Hostel,Bus,Winter,4,1,120",
	)
	waitFor(t, func() bool { return s.Status().Summary.Trips == 2 })

	if got := s.Engine().Countries(); len(got) != 2 {
		t.Errorf("countries after reload = %v", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within 5s")
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2})

	s.publishEvent(Event{Type: EventLoaded})
	s.publishEvent(Event{Type: EventReloaded})
	s.publishEvent(Event{Type: EventReloaded})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}
