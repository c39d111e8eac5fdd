package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/theirongolddev/tripcost/internal/source"
	"github.com/theirongolddev/tripcost/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	FromCache bool
	ParsedAt  time.Time
}

// LoadWithCache resolves the dataset at path and serves its trips from cache
// when the file's mtime and size are unchanged. Otherwise it parses the file
// and refreshes the cache.
func LoadWithCache(path string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	ds, err := source.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("resolving dataset: %w", err)
	}

	info, ok, err := cache.Lookup(ds.Path)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if ok && info.Fresh(ds.MtimeNs, ds.SizeBytes) {
		trips, err := cache.LoadTrips(ds.Path)
		if err != nil {
			return nil, fmt.Errorf("loading cached trips: %w", err)
		}
		if progressFn != nil {
			progressFn(info.RowCount)
		}
		return &CachedLoadResult{
			LoadResult: LoadResult{
				Dataset:       ds,
				Trips:         trips,
				Rows:          info.RowCount,
				RejectedCount: info.RejectedCount,
			},
			FromCache: true,
			ParsedAt:  info.ParsedAt,
		}, nil
	}

	lr, err := parse(ds, progressFn)
	if err != nil {
		if ok {
			// The cached trips belong to a file that no longer parses.
			if derr := cache.DeleteDataset(ds.Path); derr != nil {
				log.WithError(derr).Warn("dropping stale cache entry")
			}
		}
		return nil, err
	}

	now := time.Now()
	err = cache.SaveDataset(ds.Path, store.DatasetInfo{
		MtimeNs:       ds.MtimeNs,
		SizeBytes:     ds.SizeBytes,
		RowCount:      lr.Rows,
		RejectedCount: lr.RejectedCount,
		ParsedAt:      now,
	}, lr.Trips)
	if err != nil {
		// The parse succeeded; a stale cache only costs a re-parse next time.
		log.WithError(err).Warn("saving dataset to cache")
	}

	return &CachedLoadResult{LoadResult: *lr, ParsedAt: now}, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "tripcost")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "trips.db")
}
