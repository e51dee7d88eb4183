// Package logging builds the structured logger shared by the engines, the
// catalog tooling and the terminal UI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/abhisek/xpquest/internal/config"
)

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// New creates a logger writing to w in the configured format. A nil w
// discards output.
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		return slog.New(slog.DiscardHandler), nil
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(h).With("app", "xpquest"), nil
}

// Open creates a logger for cfg. Output goes to cfg.File when set, otherwise
// to fallback (which may be nil to discard). The returned close function
// releases the file and is always safe to call.
func Open(cfg config.LogConfig, fallback io.Writer) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if cfg.File == "" {
		l, err := New(cfg, fallback)
		return l, noop, err
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}
	l, err := New(cfg, f)
	if err != nil {
		f.Close()
		return nil, noop, err
	}
	return l, f.Close, nil
}
