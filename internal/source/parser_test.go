package source

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const header = "Country_Visited,City_Visited,Accommodation_Type,Mode_of_Travel,Season_of_Visit,Travel_Duration_Days,Number_of_Companions,Total_Travel_Cost"

// writeDataset creates a temp CSV file with the standard header and the given rows.
func writeDataset(t *testing.T, rows ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "trips.csv")
	body := header + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_DerivesCostPerPersonDay(t *testing.T) {
	path := writeDataset(t,
		"France,Paris,Hotel,Train,Summer,5,2,1000",
		"Italy,Rome,Hostel,Bus,Winter,4,1,200.5",
	)

	result := ParseFile(path, nil)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Rows != 2 {
		t.Errorf("Rows = %d, want 2", result.Rows)
	}
	if len(result.Trips) != 2 {
		t.Fatalf("Trips = %d, want 2", len(result.Trips))
	}

	paris := result.Trips[0]
	if paris.Country != "France" || paris.City != "Paris" || paris.Accommodation != "Hotel" {
		t.Errorf("unexpected categorical fields: %+v", paris)
	}
	if paris.CostPerPersonDay != 100 {
		t.Errorf("CostPerPersonDay = %v, want 100", paris.CostPerPersonDay)
	}
	if paris.Line != 2 {
		t.Errorf("Line = %d, want 2", paris.Line)
	}

	rome := result.Trips[1]
	if math.Abs(rome.CostPerPersonDay-50.125) > 1e-9 {
		t.Errorf("CostPerPersonDay = %v, want 50.125", rome.CostPerPersonDay)
	}
}

func TestParseFile_RejectsBadRowsAndKeepsGoodOnes(t *testing.T) {
	path := writeDataset(t,
		"France,Paris,Hotel,Train,Summer,0,2,1000",
		"France,Paris,Hotel,Train,Summer,3,-1,1000",
		"France,Paris,Hotel,Train,Summer,3,2,abc",
		"France,Paris,Hotel,Train,Summer,2.5,2,1000",
		"France,Paris,Hotel,Train,Summer,3,2,-5",
		"France,Paris,Hotel,Train,Summer,7.0,2,1400",
	)

	result := ParseFile(path, nil)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Rows != 6 {
		t.Errorf("Rows = %d, want 6", result.Rows)
	}
	if len(result.Trips) != 1 {
		t.Fatalf("Trips = %d, want 1", len(result.Trips))
	}
	if result.Trips[0].DurationDays != 7 {
		t.Errorf("DurationDays = %d, want 7", result.Trips[0].DurationDays)
	}
	if len(result.Rejected) != 5 {
		t.Fatalf("Rejected = %d, want 5", len(result.Rejected))
	}

	wantCols := []string{ColDuration, ColCompanions, ColTotalCost, ColDuration, ColTotalCost}
	for i, re := range result.Rejected {
		if re.Column != wantCols[i] {
			t.Errorf("Rejected[%d].Column = %q, want %q", i, re.Column, wantCols[i])
		}
		if !errors.Is(re, ErrDataQuality) {
			t.Errorf("Rejected[%d] does not wrap ErrDataQuality", i)
		}
	}
	if result.Rejected[0].Line != 2 {
		t.Errorf("Rejected[0].Line = %d, want 2", result.Rejected[0].Line)
	}
}

func TestParseFile_NoFiniteCosts(t *testing.T) {
	path := writeDataset(t,
		"France,Paris,Hotel,Train,Summer,3,2,NaN",
		"France,Paris,Hotel,Train,Summer,3,2,Inf",
	)

	result := ParseFile(path, nil)
	if len(result.Trips) != 0 {
		t.Errorf("Trips = %d, want 0", len(result.Trips))
	}
	if len(result.Rejected) != 2 {
		t.Errorf("Rejected = %d, want 2", len(result.Rejected))
	}
}

func TestParseReader_ColumnOrderAndExtras(t *testing.T) {
	csv := "Trip_ID,Total_Travel_Cost,Number_of_Companions,Travel_Duration_Days,Season_of_Visit,Mode_of_Travel,Accommodation_Type,City_Visited,Country_Visited\n" +
		"1,600,3,2,Fall,Car,Airbnb,Lyon,France\n"

	result := ParseReader(strings.NewReader(csv), nil)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Trips) != 1 {
		t.Fatalf("Trips = %d, want 1", len(result.Trips))
	}
	tr := result.Trips[0]
	if tr.City != "Lyon" || tr.TravelMode != "Car" || tr.Season != "Fall" {
		t.Errorf("unexpected trip: %+v", tr)
	}
	if tr.CostPerPersonDay != 100 {
		t.Errorf("CostPerPersonDay = %v, want 100", tr.CostPerPersonDay)
	}
}

func TestParseReader_KeepsCategoricalValuesVerbatim(t *testing.T) {
	csv := header + "\n" + "France, Paris ,hotel,Train,summer,1,1,10\n"

	result := ParseReader(strings.NewReader(csv), nil)
	if len(result.Trips) != 1 {
		t.Fatalf("Trips = %d, want 1", len(result.Trips))
	}
	if result.Trips[0].City != " Paris " {
		t.Errorf("City = %q, want %q", result.Trips[0].City, " Paris ")
	}
	if result.Trips[0].Season != "summer" {
		t.Errorf("Season = %q, want summer", result.Trips[0].Season)
	}
}

func TestParseReader_MissingColumns(t *testing.T) {
	result := ParseReader(strings.NewReader("Country_Visited,City_Visited\nFrance,Paris\n"), nil)
	if result.Err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !errors.Is(result.Err, ErrDataQuality) {
		t.Errorf("error %v does not wrap ErrDataQuality", result.Err)
	}
	if !strings.Contains(result.Err.Error(), ColTotalCost) {
		t.Errorf("error %q should name %s", result.Err, ColTotalCost)
	}
}

func TestParseReader_EmptyInput(t *testing.T) {
	result := ParseReader(strings.NewReader(""), nil)
	if !errors.Is(result.Err, ErrDataQuality) {
		t.Errorf("Err = %v, want ErrDataQuality", result.Err)
	}
}

func TestParseReader_ReportsProgress(t *testing.T) {
	csv := header + "\n" + "France,Paris,Hotel,Train,Summer,1,1,10\n"

	var last int
	ParseReader(strings.NewReader(csv), func(rows int) { last = rows })
	if last != 1 {
		t.Errorf("last progress = %d, want 1", last)
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	result := ParseFile(filepath.Join(t.TempDir(), "nope.csv"), nil)
	if result.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolve(t *testing.T) {
	path := writeDataset(t, "France,Paris,Hotel,Train,Summer,1,1,10")

	df, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(file): %v", err)
	}
	if df.SizeBytes == 0 || df.MtimeNs == 0 {
		t.Errorf("Resolve(file) missing stat info: %+v", df)
	}

	byDir, err := Resolve(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Resolve(dir): %v", err)
	}
	if byDir.Path != df.Path {
		t.Errorf("Resolve(dir).Path = %q, want %q", byDir.Path, df.Path)
	}

	second := filepath.Join(filepath.Dir(path), "other.csv")
	if err := os.WriteFile(second, []byte(header+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(filepath.Dir(path)); err == nil {
		t.Error("Resolve(dir) with two CSV files should fail")
	}

	if _, err := Resolve(t.TempDir()); err == nil {
		t.Error("Resolve(empty dir) should fail")
	}
}
