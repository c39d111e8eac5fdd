package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/daemon"
)

var (
	flagServeAddr         string
	flagServeDebounce     time.Duration
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner over HTTP and reload when the dataset changes",
	Long: "Serve the planner as a JSON API. The dataset file is watched and reloaded after\n" +
		"a quiet period; a reload that fails keeps serving the previous data.\n" +
		"Runs in the foreground until interrupted.",
	RunE: runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a running server",
	RunE:  runServeStatus,
}

func init() {
	pf := serveCmd.PersistentFlags()
	pf.StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	pf.DurationVar(&flagServeDebounce, "debounce", 0, "Quiet period before reloading a changed dataset (default from config)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Load events kept for /v1/events")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return cfg.Server.Addr
}

func serveDebounce() time.Duration {
	if flagServeDebounce > 0 {
		return flagServeDebounce
	}
	return time.Duration(cfg.Server.DebounceMs) * time.Millisecond
}

func runServe(cmd *cobra.Command, _ []string) error {
	path, err := datasetPath()
	if err != nil {
		return err
	}

	addr := serveAddr()
	svc := daemon.New(daemon.Config{
		Dataset:      path,
		UseCache:     !flagNoCache,
		Addr:         addr,
		Debounce:     serveDebounce(),
		EventsBuffer: flagServeEventsBuffer,
		Defaults:     baseQuery(),
	})

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("  tripcost listening on http://%s\n", addr)
	fmt.Printf("  Watching %s, reloading %s after the last change\n", path, serveDebounce())
	fmt.Println("  Press Ctrl-C to stop")

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("\n  Server stopped.")
	return nil
}

func runServeStatus(cmd *cobra.Command, _ []string) error {
	addr := serveAddr()
	st, err := fetchStatus(cmd.Context(), addr)
	if err != nil {
		return fmt.Errorf("no server answering on %s: %w", addr, err)
	}
	if ok, err := structured(st); ok {
		return err
	}

	fmt.Printf("  Server:     http://%s\n", addr)
	fmt.Printf("  Up since:   %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Dataset:    %s\n", st.Dataset)
	if st.LastLoadAt.IsZero() {
		fmt.Println("  Last load:  pending")
	} else {
		how := "parsed"
		if st.Summary.FromCache {
			how = "cached"
		}
		fmt.Printf("  Last load:  %s (%s, load #%d)\n", st.LastLoadAt.Local().Format(time.RFC3339), how, st.LoadCount)
	}
	fmt.Printf("  Trips:      %s in %d countries, %s skipped\n",
		cli.FormatTrips(st.Summary.Trips), st.Summary.Countries, cli.FormatNumber(int64(st.Summary.Rejected)))
	fmt.Printf("  Listeners:  %d\n", st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

// fetchStatus asks the server at addr for its /v1/status.
func fetchStatus(ctx context.Context, addr string) (daemon.Status, error) {
	var st daemon.Status

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("status endpoint returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("decoding status: %w", err)
	}
	return st, nil
}
