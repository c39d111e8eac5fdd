package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/tripcost/internal/config"
)

func TestSetupValuesRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	if v.Days != "7" || v.Travelers != "2" || v.Theme != "flexoki-dark" {
		t.Errorf("seeded values = %+v", *v)
	}

	v.Dataset = " /data/trips.csv "
	v.Days = "10"
	v.Theme = "terminal"
	v.Format = config.FormatYAML
	if err := v.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.General.Dataset != "/data/trips.csv" || cfg.General.DefaultDays != 10 {
		t.Errorf("general = %+v", cfg.General)
	}
	if cfg.Appearance.Theme != "terminal" || cfg.Output.Format != config.FormatYAML {
		t.Errorf("appearance/output = %+v / %+v", cfg.Appearance, cfg.Output)
	}
}

func TestSetupValuesApply_Invalid(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	v.Travelers = "0"
	if err := v.Apply(&cfg); err == nil {
		t.Error("Apply accepted 0 travelers")
	}
	if cfg.General.DefaultTravelers != 2 {
		t.Errorf("config changed on error: %+v", cfg.General)
	}
}

func TestValidateDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.csv")
	if err := os.WriteFile(path, []byte("x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := validateDataset(path); err != nil {
		t.Errorf("validateDataset(existing) = %v", err)
	}
	if err := validateDataset("  "); err == nil {
		t.Error("validateDataset(blank) = nil")
	}
	if err := validateDataset(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("validateDataset(missing) = nil")
	}
}

func TestValidatePositive(t *testing.T) {
	for _, ok := range []string{"1", " 14 "} {
		if err := validatePositive(ok); err != nil {
			t.Errorf("validatePositive(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"0", "-3", "two", ""} {
		if err := validatePositive(bad); err == nil {
			t.Errorf("validatePositive(%q) = nil", bad)
		}
	}
}
