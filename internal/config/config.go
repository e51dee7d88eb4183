// Package config loads xpquest settings from defaults, an optional YAML
// file and XPQUEST_* environment variables.
package config

// Catalog drivers.
const (
	DriverBuiltin = "builtin"
	DriverFile    = "file"
	DriverSQLite  = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Quiz    QuizConfig    `mapstructure:"quiz"`
}

// CatalogConfig selects where quiz items and scenarios come from. Path is a
// JSON file for the file driver and a database path for sqlite; an empty
// sqlite path means the default database location.
type CatalogConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=builtin file sqlite"`
	Path   string `mapstructure:"path" validate:"required_if=Driver file"`
}

// LogConfig controls the structured logger. An empty File discards logs
// while the terminal UI owns the screen.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	File   string `mapstructure:"file"`
}

// QuizConfig tunes engine behavior.
type QuizConfig struct {
	StrictIDs  bool `mapstructure:"strict_ids"`
	FenceLoads bool `mapstructure:"fence_loads"`
}
