// Package config loads the supervisor configuration from YAML files,
// QLISTEN_* environment variables, and bound CLI flags via viper.
package config

import (
	"github.com/queueworks/qlisten/internal/core"
)

// Config is the root configuration.
type Config struct {
	Worker      WorkerConfig   `mapstructure:"worker" yaml:"worker"`
	Defaults    DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Environment string         `mapstructure:"environment" yaml:"environment,omitempty"`
	Log         LogConfig      `mapstructure:"log" yaml:"log"`
}

// WorkerConfig describes the worker executable being supervised.
type WorkerConfig struct {
	// Binary is the worker executable. Resolution of the path is the
	// caller's concern; the value is used as-is.
	Binary string `mapstructure:"binary" yaml:"binary"`
	// Subcommand is the worker entry point invoked in --once mode.
	Subcommand string `mapstructure:"subcommand" yaml:"subcommand"`
	// Dir is the working directory applied to every worker launch.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// DefaultsConfig holds per-run option defaults, overridable per listen call.
type DefaultsConfig struct {
	Connection string `mapstructure:"connection" yaml:"connection"`
	Queue      string `mapstructure:"queue" yaml:"queue"`
	Delay      int    `mapstructure:"delay" yaml:"delay"`
	Memory     int    `mapstructure:"memory" yaml:"memory"`
	Sleep      int    `mapstructure:"sleep" yaml:"sleep"`
	Tries      int    `mapstructure:"tries" yaml:"tries"`
	Timeout    int    `mapstructure:"timeout" yaml:"timeout"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Worker: WorkerConfig{
			Subcommand: "work",
			Dir:        ".",
		},
		Defaults: DefaultsConfig{
			Connection: "default",
			Queue:      "default",
			Delay:      0,
			Memory:     128,
			Sleep:      3,
			Tries:      0,
			Timeout:    60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Validate checks the configuration for values the supervisor cannot run with.
func (c *Config) Validate() error {
	if c.Worker.Binary == "" {
		return core.ErrValidation("NO_WORKER_BINARY", "worker.binary must be configured")
	}
	if c.Defaults.Memory <= 0 {
		return core.ErrValidation("BAD_MEMORY", "defaults.memory must be greater than zero")
	}
	if c.Defaults.Delay < 0 {
		return core.ErrValidation("BAD_DELAY", "defaults.delay must not be negative")
	}
	if c.Defaults.Sleep < 0 {
		return core.ErrValidation("BAD_SLEEP", "defaults.sleep must not be negative")
	}
	if c.Defaults.Tries < 0 {
		return core.ErrValidation("BAD_TRIES", "defaults.tries must not be negative")
	}
	if c.Defaults.Timeout < 0 {
		return core.ErrValidation("BAD_TIMEOUT", "defaults.timeout must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return core.ErrValidation("BAD_LOG_LEVEL", "log.level must be one of debug, info, warn, error")
	}
	return nil
}
