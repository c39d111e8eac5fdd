package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/theirongolddev/tripcost/internal/budget"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/pipeline"
)

// ErrNoData is returned by /v1/budget when no trip matches the destination
// and no base cost was given.
var ErrNoData = errors.New("no data available for the selected combination")

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	mux.HandleFunc("/v1/countries", s.handleCountries)
	mux.HandleFunc("/v1/cities", s.handleCities)
	mux.HandleFunc("/v1/accommodations", s.handleAccommodations)
	mux.HandleFunc("/v1/modes", s.handleModes)
	mux.HandleFunc("/v1/stats", s.handleStats)
	mux.HandleFunc("/v1/compare", s.handleCompare)
	mux.HandleFunc("/v1/seasons", s.handleSeasons)
	mux.HandleFunc("/v1/budget", s.handleBudget)
	mux.HandleFunc("/v1/plan", s.handlePlan)
	return logRequests(mux)
}

// Comparison is served at /v1/compare.
type Comparison struct {
	ByTravelMode    []model.GroupCost `json:"by_travel_mode"`
	ByAccommodation []model.GroupCost `json:"by_accommodation"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Status())
}

func (s *Service) handleCountries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine().Countries())
}

func (s *Service) handleCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine().Cities(r.URL.Query().Get("country")))
}

func (s *Service) handleAccommodations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine().AccommodationTypes())
}

func (s *Service) handleModes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine().TravelModes())
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.Engine().CostStatistics(q.Get("country"), q.Get("city"), q.Get("accommodation")))
}

func (s *Service) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	eng := s.Engine()
	writeJSON(w, http.StatusOK, Comparison{
		ByTravelMode:    eng.GroupedByTravelMode(q.Get("country"), q.Get("city")),
		ByAccommodation: eng.GroupedByAccommodation(q.Get("country"), q.Get("city")),
	})
}

func (s *Service) handleSeasons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.Engine().SeasonalTrend(q.Get("country"), q.Get("city")))
}

func (s *Service) handleBudget(w http.ResponseWriter, r *http.Request) {
	query, err := s.parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var base float64
	if raw := r.URL.Query().Get("base"); raw != "" {
		base, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: base %q is not a number", budget.ErrInvalidArgument, raw))
			return
		}
	} else {
		stats := s.Engine().CostStatistics(query.Country, query.City, query.Accommodation)
		if !stats.Estimable() {
			writeError(w, http.StatusNotFound, ErrNoData)
			return
		}
		base = stats.Average
	}

	est, err := budget.ForSeason(base, query.Days, query.Travelers, query.Season)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Service) handlePlan(w http.ResponseWriter, r *http.Request) {
	query, err := s.parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	eng := s.Engine()
	report, err := pipeline.BuildReport(r.Context(), eng, pipeline.ResolveQuery(eng, query))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, budget.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// parseQuery reads a planner query from URL parameters, filling trip shape
// defaults from the service config.
func (s *Service) parseQuery(v url.Values) (pipeline.Query, error) {
	q := pipeline.Query{
		Country:       v.Get("country"),
		City:          v.Get("city"),
		Accommodation: v.Get("accommodation"),
		Days:          s.cfg.Defaults.Days,
		Travelers:     s.cfg.Defaults.Travelers,
		Season:        s.cfg.Defaults.Season,
	}
	if season := v.Get("season"); season != "" {
		q.Season = season
	}

	var err error
	if q.Days, err = intParam(v, "days", q.Days); err != nil {
		return q, err
	}
	if q.Travelers, err = intParam(v, "travelers", q.Travelers); err != nil {
		return q, err
	}
	return q, nil
}

func intParam(v url.Values, name string, def int) (int, error) {
	raw := v.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", budget.ErrInvalidArgument, name, raw)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps /v1/stream working through the logging wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("request")
	})
}
