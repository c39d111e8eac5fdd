package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/logging"
	"github.com/theirongolddev/tripcost/internal/pipeline"
	"github.com/theirongolddev/tripcost/internal/tui"
	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive trip planner",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	path, err := datasetPath()
	if err != nil {
		return err
	}

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log lines written to stderr would tear the alternate screen.
	logOut := io.Discard
	if f, err := openTUILog(); err == nil {
		defer func() { _ = f.Close() }()
		logOut = f
	}
	if err := logging.Setup(cfg.Log.Level, logOut); err != nil {
		return err
	}

	app := tui.NewApp(tui.Options{
		Dataset:  path,
		UseCache: !flagNoCache,
		Query:    baseQuery(),
		Currency: cfg.General.Currency,
		AskFirst: flagCountry == "" && flagCity == "",
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

func openTUILog() (*os.File, error) {
	dir := pipeline.CacheDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	//nolint:gosec // log path lives under the user cache directory
	return os.OpenFile(filepath.Join(dir, "tui.log"), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
}
