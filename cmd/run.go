package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/xpquest/internal/catalog"
	"github.com/abhisek/xpquest/internal/config"
	"github.com/abhisek/xpquest/internal/events"
	"github.com/abhisek/xpquest/internal/logging"
	"github.com/abhisek/xpquest/internal/quiz"
	"github.com/abhisek/xpquest/internal/simulation"
	"github.com/abhisek/xpquest/internal/store"
)

// env is everything a command needs once configuration is resolved.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	source  catalog.Source
	desc    string
	bus     *events.Bus
	closers []func() error
}

// Close releases the catalog source and log file.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}

// newSession builds a quiz session over the configured source.
func (e *env) newSession() *quiz.Session {
	opts := []quiz.Option{
		quiz.WithLogger(e.logger),
		quiz.WithEmitter(e.bus),
	}
	if e.cfg.Quiz.StrictIDs {
		opts = append(opts, quiz.WithStrictIDs())
	}
	if e.cfg.Quiz.FenceLoads {
		opts = append(opts, quiz.WithLoadFencing())
	}
	return quiz.New(e.source, opts...)
}

// newEngine builds a simulation engine over the configured source.
func (e *env) newEngine() *simulation.Engine {
	opts := []simulation.Option{
		simulation.WithLogger(e.logger),
		simulation.WithEmitter(e.bus),
	}
	if e.cfg.Quiz.FenceLoads {
		opts = append(opts, simulation.WithLoadFencing())
	}
	return simulation.New(e.source, opts...)
}

// loadConfig reads the config file and applies persistent flag overrides.
// Flags take precedence over the environment, which takes precedence over
// the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if d, _ := cmd.Flags().GetString("catalog-driver"); d != "" {
		cfg.Catalog.Driver = strings.ToLower(d)
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.Catalog.Path = p
		if !cmd.Flags().Changed("catalog-driver") && cfg.Catalog.Driver == config.DriverBuiltin {
			cfg.Catalog.Driver = inferDriver(p)
		}
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.Log.Level = strings.ToLower(l)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// inferDriver guesses the catalog driver from a path's extension.
func inferDriver(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return config.DriverSQLite
	default:
		return config.DriverFile
	}
}

// openSource returns the catalog source for cfg, a short description for
// display and a close function.
func openSource(cfg config.CatalogConfig) (catalog.Source, string, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverBuiltin:
		src, err := catalog.Builtin()
		if err != nil {
			return nil, "", noop, err
		}
		return src, "catalog: builtin", noop, nil

	case config.DriverFile:
		return catalog.NewFile(cfg.Path), "catalog: " + cfg.Path, noop, nil

	case config.DriverSQLite:
		path := cfg.Path
		if path == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, "", noop, fmt.Errorf("resolve DB path: %w", err)
			}
			path = p
		} else if err := store.EnsureDir(path); err != nil {
			return nil, "", noop, fmt.Errorf("create DB directory: %w", err)
		}
		st, err := store.Open(path)
		if err != nil {
			return nil, "", noop, fmt.Errorf("open store: %w", err)
		}
		return st, "catalog: sqlite " + path, st.Close, nil
	}
	return nil, "", noop, fmt.Errorf("unknown catalog driver %q", cfg.Driver)
}

// setup resolves configuration, the logger and the catalog source. Logs go
// to logOut unless the config names a file; a nil logOut discards them.
func setup(cmd *cobra.Command, logOut io.Writer) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Open(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger, closers: []func() error{closeLog}}

	src, desc, closeSrc, err := openSource(cfg.Catalog)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.source, e.desc = src, desc
	e.closers = append(e.closers, closeSrc)

	e.bus = events.NewBus(logger)
	e.bus.Subscribe(events.LogHandler(logger.With("component", "events")))

	logger.Debug("configuration resolved",
		"catalog_driver", cfg.Catalog.Driver,
		"catalog_path", cfg.Catalog.Path,
		"strict_ids", cfg.Quiz.StrictIDs,
		"fence_loads", cfg.Quiz.FenceLoads,
	)
	return e, nil
}
