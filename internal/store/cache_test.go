package store

import (
	"path/filepath"
	"testing"

	"github.com/theirongolddev/tripcost/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "sub", "trips.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleTrips() []model.Trip {
	a := model.NewTrip("France", "Paris", "Hotel", "Plane", "Summer", 7, 2, 1400)
	a.Line = 2
	b := model.NewTrip("Italy", "Rome", "Hostel", "Train", "Winter", 4, 1, 200.5)
	b.Line = 5
	return []model.Trip{b, a}
}

func TestCache_SaveAndLoad(t *testing.T) {
	c := openTestCache(t)

	info := DatasetInfo{MtimeNs: 42, SizeBytes: 1024, RowCount: 3, RejectedCount: 1}
	if err := c.SaveDataset("/data/trips.csv", info, sampleTrips()); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	got, ok, err := c.Lookup("/data/trips.csv")
	if err != nil || !ok {
		t.Fatalf("Lookup = %v, %v; want found", ok, err)
	}
	if !got.Fresh(42, 1024) {
		t.Errorf("Fresh(42, 1024) = false, want true")
	}
	if got.Fresh(43, 1024) {
		t.Errorf("Fresh(43, 1024) = true, want false")
	}
	if got.RowCount != 3 || got.RejectedCount != 1 {
		t.Errorf("counts = %d/%d, want 3/1", got.RowCount, got.RejectedCount)
	}
	if got.ParsedAt.IsZero() {
		t.Error("ParsedAt not recorded")
	}

	trips, err := c.LoadTrips("/data/trips.csv")
	if err != nil {
		t.Fatalf("LoadTrips: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("len(trips) = %d, want 2", len(trips))
	}
	if trips[0].Line != 2 || trips[0].City != "Paris" {
		t.Errorf("trips[0] = %+v, want line 2 Paris", trips[0])
	}
	if trips[0].CostPerPersonDay != 100 {
		t.Errorf("CostPerPersonDay = %v, want 100", trips[0].CostPerPersonDay)
	}
	if trips[1].TotalCost != 200.5 {
		t.Errorf("TotalCost = %v, want 200.5", trips[1].TotalCost)
	}
}

func TestCache_SaveReplaces(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveDataset("a.csv", DatasetInfo{MtimeNs: 1}, sampleTrips()); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveDataset("a.csv", DatasetInfo{MtimeNs: 2}, sampleTrips()[:1]); err != nil {
		t.Fatal(err)
	}

	trips, err := c.LoadTrips("a.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(trips) != 1 {
		t.Errorf("len(trips) = %d, want 1", len(trips))
	}
	info, _, _ := c.Lookup("a.csv")
	if info.MtimeNs != 2 {
		t.Errorf("MtimeNs = %d, want 2", info.MtimeNs)
	}
}

func TestCache_LookupMissingAndDelete(t *testing.T) {
	c := openTestCache(t)

	if _, ok, err := c.Lookup("nope.csv"); ok || err != nil {
		t.Errorf("Lookup(missing) = %v, %v; want false, nil", ok, err)
	}

	if err := c.SaveDataset("a.csv", DatasetInfo{}, sampleTrips()); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveDataset("b.csv", DatasetInfo{}, nil); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.DatasetCount(); n != 2 {
		t.Errorf("DatasetCount = %d, want 2", n)
	}

	if err := c.DeleteDataset("a.csv"); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.DatasetCount(); n != 1 {
		t.Errorf("DatasetCount after delete = %d, want 1", n)
	}
	trips, err := c.LoadTrips("a.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(trips) != 0 {
		t.Errorf("trips left after delete: %d", len(trips))
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SaveDataset("a.csv", DatasetInfo{RowCount: 1}, sampleTrips()[:1]); err != nil {
		t.Fatal(err)
	}
	_ = c.Close()

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = c2.Close() }()
	if n, _ := c2.DatasetCount(); n != 1 {
		t.Errorf("DatasetCount after reopen = %d, want 1", n)
	}
}
