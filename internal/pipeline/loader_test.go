package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/tripcost/internal/source"
	"github.com/theirongolddev/tripcost/internal/store"
)

const testHeader = "Country_Visited,City_Visited,Accommodation_Type,Mode_of_Travel,Season_of_Visit,Travel_Duration_Days,Number_of_Companions,Total_Travel_Cost"

func writeCSV(t *testing.T, dir string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, "trips.csv")
	content := testHeader + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, t.TempDir(),
		"France,Paris,Hotel,Plane,Summer,7,2,1400",
		"France,Paris,Hotel,Plane,Summer,0,2,1400",
		"Italy,Rome,Hostel,Bus,Winter,4,1,120",
	)

	var lastProgress int
	lr, err := Load(path, func(rows int) { lastProgress = rows })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lr.Rows != 3 || len(lr.Trips) != 2 || lr.RejectedCount != 1 {
		t.Errorf("rows/trips/rejected = %d/%d/%d, want 3/2/1", lr.Rows, len(lr.Trips), lr.RejectedCount)
	}
	if len(lr.Rejected) != 1 || lr.Rejected[0].Line != 3 {
		t.Errorf("Rejected = %v, want line 3", lr.Rejected)
	}
	if lastProgress != 3 {
		t.Errorf("last progress = %d, want 3", lastProgress)
	}
	if !filepath.IsAbs(lr.Dataset.Path) {
		t.Errorf("Dataset.Path = %q, want absolute", lr.Dataset.Path)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv"), nil); err == nil {
		t.Error("Load(missing) succeeded")
	}

	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("Country_Visited,City_Visited\nFrance,Paris\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, nil); !errors.Is(err, source.ErrDataQuality) {
		t.Errorf("Load(missing columns) err = %v, want ErrDataQuality", err)
	}
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir,
		"France,Paris,Hotel,Plane,Summer,7,2,1400",
		"France,Paris,Hotel,Plane,Summer,x,2,1400",
	)

	cache, err := store.Open(filepath.Join(dir, "cache", "trips.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.FromCache {
		t.Error("first load FromCache = true")
	}

	second, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !second.FromCache {
		t.Error("second load FromCache = false")
	}
	if len(second.Trips) != 1 || second.RejectedCount != 1 || second.Rows != 2 {
		t.Errorf("cached trips/rejected/rows = %d/%d/%d, want 1/1/2",
			len(second.Trips), second.RejectedCount, second.Rows)
	}
	if second.Trips[0].CostPerPersonDay != first.Trips[0].CostPerPersonDay {
		t.Errorf("cached cost = %v, want %v", second.Trips[0].CostPerPersonDay, first.Trips[0].CostPerPersonDay)
	}

	// A different size invalidates the cache entry.
	writeCSV(t, dir,
		"France,Paris,Hotel,Plane,Summer,7,2,1400",
		"Italy,Rome,Hostel,Bus,Winter,4,1,120",
		"Italy,Milan,Hotel,Train,Summer,2,1,200",
	)
	third, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.FromCache || len(third.Trips) != 3 {
		t.Errorf("after change FromCache = %v, trips = %d; want false, 3", third.FromCache, len(third.Trips))
	}
}

func TestLoadWithCache_DropsEntryWhenFileStopsParsing(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "France,Paris,Hotel,Plane,Summer,7,2,1400")

	cache, err := store.Open(filepath.Join(dir, "cache", "trips.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	if _, err := LoadWithCache(path, cache, nil); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if n, _ := cache.DatasetCount(); n != 1 {
		t.Fatalf("DatasetCount = %d, want 1", n)
	}

	if err := os.WriteFile(path, []byte("Country_Visited,City_Visited\nFrance,Paris\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWithCache(path, cache, nil); !errors.Is(err, source.ErrDataQuality) {
		t.Fatalf("load of broken file err = %v, want ErrDataQuality", err)
	}
	if n, _ := cache.DatasetCount(); n != 0 {
		t.Errorf("DatasetCount after failed parse = %d, want 0", n)
	}
}

func TestCachePath(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	if got := CachePath(); got != "/tmp/xdg-cache/tripcost/trips.db" {
		t.Errorf("CachePath = %q", got)
	}
}
