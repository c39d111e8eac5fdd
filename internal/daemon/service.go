// Package daemon serves the trip planner over HTTP and reloads the dataset
// when it changes on disk.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/theirongolddev/tripcost/internal/pipeline"
	"github.com/theirongolddev/tripcost/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Dataset      string
	UseCache     bool
	Addr         string
	Debounce     time.Duration
	EventsBuffer int
	// Defaults fills days, travelers and season when a request omits them.
	Defaults pipeline.Query
}

// Snapshot describes the dataset currently being served.
type Snapshot struct {
	At        time.Time `json:"at"`
	Dataset   string    `json:"dataset"`
	Rows      int       `json:"rows"`
	Trips     int       `json:"trips"`
	Rejected  int       `json:"rejected"`
	Countries int       `json:"countries"`
	FromCache bool      `json:"from_cache"`
}

// Event is emitted whenever the dataset is loaded or a reload fails.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Error     string    `json:"error,omitempty"`
}

// Event types.
const (
	EventLoaded      = "loaded"
	EventReloaded    = "reloaded"
	EventReloadError = "reload_error"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastLoadAt      time.Time `json:"last_load_at"`
	LoadCount       int64     `json:"load_count"`
	Dataset         string    `json:"dataset"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config

	mu          sync.RWMutex
	engine      *pipeline.Engine
	startedAt   time.Time
	lastLoadAt  time.Time
	loadCount   int64
	lastError   string
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 200 * time.Millisecond
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Defaults.Days < 1 {
		cfg.Defaults.Days = 7
	}
	if cfg.Defaults.Travelers < 1 {
		cfg.Defaults.Travelers = 2
	}

	return &Service{
		cfg:       cfg,
		engine:    pipeline.NewEngine(nil),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run loads the dataset, then serves HTTP and watches the dataset file until
// ctx is canceled. A failed initial load is fatal; failed reloads keep the
// previous dataset.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Load(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file are seen too.
	path := s.datasetPath()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.WithField("addr", s.cfg.Addr).Info("serving trip planner")

	debounce := time.NewTimer(s.cfg.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(s.cfg.Debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("dataset watcher")
		case <-debounce.C:
			if err := s.Load(); err != nil {
				log.WithError(err).Error("reloading dataset")
			}
		}
	}
}

// Load (re)reads the dataset and swaps in a new engine. On failure the
// previous engine keeps serving.
func (s *Service) Load() error {
	lr, fromCache, err := s.loadDataset()
	now := time.Now()

	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastLoadAt = now
		s.loadCount++
		first := s.loadCount == 1
		snap := s.snapshot
		s.mu.Unlock()

		if !first {
			s.publishEvent(Event{Type: EventReloadError, Timestamp: now, Snapshot: snap, Error: err.Error()})
		}
		return err
	}

	eng := pipeline.NewEngine(lr.Trips)
	snap := Snapshot{
		At:        now,
		Dataset:   lr.Dataset.Path,
		Rows:      lr.Rows,
		Trips:     len(lr.Trips),
		Rejected:  lr.RejectedCount,
		Countries: len(eng.Countries()),
		FromCache: fromCache,
	}

	s.mu.Lock()
	evType := EventReloaded
	if s.snapshot.At.IsZero() {
		evType = EventLoaded
	}
	s.engine = eng
	s.snapshot = snap
	s.lastLoadAt = now
	s.loadCount++
	s.lastError = ""
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"dataset":    snap.Dataset,
		"trips":      snap.Trips,
		"rejected":   snap.Rejected,
		"from_cache": snap.FromCache,
	}).Info("dataset loaded")

	s.publishEvent(Event{Type: evType, Timestamp: now, Snapshot: snap})
	return nil
}

func (s *Service) loadDataset() (*pipeline.LoadResult, bool, error) {
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := pipeline.LoadWithCache(s.cfg.Dataset, cache, nil)
			if loadErr == nil {
				return &cr.LoadResult, cr.FromCache, nil
			}
			log.WithError(loadErr).Warn("cached load failed, parsing directly")
		} else {
			log.WithError(err).Warn("opening cache")
		}
	}

	lr, err := pipeline.Load(s.cfg.Dataset, nil)
	if err != nil {
		return nil, false, err
	}
	return lr, false, nil
}

// datasetPath is the resolved dataset file once loaded, else the configured path.
func (s *Service) datasetPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Dataset != "" {
		return s.snapshot.Dataset
	}
	return s.cfg.Dataset
}

// Engine returns the engine currently being served.
func (s *Service) Engine() *pipeline.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// Status returns the current service status.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastLoadAt:      s.lastLoadAt,
		LoadCount:       s.loadCount,
		Dataset:         s.cfg.Dataset,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.Status().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
