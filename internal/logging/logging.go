// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// Setup points the standard logrus logger at w with the given level name
// ("debug", "info", "warn", "error").
func Setup(level string, w io.Writer) error {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp:       lvl < log.DebugLevel,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	return nil
}
