// Package logging builds the pslog logger commands log diagnostics through.
package logging

import (
	"fmt"
	"io"
	"strings"

	"pkt.systems/pslog"

	"github.com/jakoblorz/go-debugargs/internal/config"
)

// New creates a logger writing to w at the configured level and format.
func New(w io.Writer, cfg config.LogConfig) (pslog.Logger, error) {
	opts := pslog.Options{Mode: pslog.ModeConsole}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
	case "json":
		opts.Mode = pslog.ModeStructured
		opts.NoColor = true
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Level)) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "", "info":
		opts.MinLevel = pslog.InfoLevel
	case "warn", "warning":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		return nil, fmt.Errorf("unsupported log level %q", cfg.Level)
	}

	return pslog.NewWithOptions(w, opts), nil
}
