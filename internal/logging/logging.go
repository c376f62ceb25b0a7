// Package logging builds the zerolog loggers used across capplan.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with component. CAPPLAN_ENV=dev switches to
// human-readable console output; otherwise lines are JSON. Unknown levels
// fall back to info.
func New(w io.Writer, component, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if strings.ToLower(os.Getenv("CAPPLAN_ENV")) == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
}
