package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/config"
	"github.com/theirongolddev/tripcost/internal/pipeline"
	"github.com/theirongolddev/tripcost/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.Dataset != "" {
		fmt.Printf("    Dataset:           %s\n", cfg.General.Dataset)
	} else {
		fmt.Println("    Dataset:           not configured")
	}
	fmt.Printf("    Default days:      %d\n", cfg.General.DefaultDays)
	fmt.Printf("    Default travelers: %d\n", cfg.General.DefaultTravelers)
	fmt.Printf("    Default season:    %s\n", cfg.General.DefaultSeason)
	fmt.Printf("    Currency:          %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Output]")
	fmt.Printf("    Format: %s\n", cfg.Output.Format)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:  %s\n", cfg.Server.Addr)
	fmt.Printf("    Debounce: %s\n", time.Duration(cfg.Server.DebounceMs)*time.Millisecond)
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Path: %s\n", pipeline.CachePath())
	if cache, err := store.Open(pipeline.CachePath()); err != nil {
		fmt.Printf("    Status: unavailable (%v)\n", err)
	} else {
		n, err := cache.DatasetCount()
		_ = cache.Close()
		if err == nil {
			fmt.Printf("    Datasets cached: %d\n", n)
		}
	}
	fmt.Println()

	fmt.Println("  Run `tripcost setup` to reconfigure.")
	return nil
}
