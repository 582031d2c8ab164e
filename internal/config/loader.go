package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "QLISTEN",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "QLISTEN",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (QLISTEN_*)
// 3. Config file (qlisten.yaml in the current directory, or --config)
// 4. User config (~/.config/qlisten/qlisten.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName("qlisten")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("$HOME/.config/qlisten")
	}

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine either way: search paths may have
		// none, and an explicit --config path may not be written yet.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func (l *Loader) setDefaults() {
	def := Default()

	l.v.SetDefault("worker.binary", def.Worker.Binary)
	l.v.SetDefault("worker.subcommand", def.Worker.Subcommand)
	l.v.SetDefault("worker.dir", def.Worker.Dir)

	l.v.SetDefault("defaults.connection", def.Defaults.Connection)
	l.v.SetDefault("defaults.queue", def.Defaults.Queue)
	l.v.SetDefault("defaults.delay", def.Defaults.Delay)
	l.v.SetDefault("defaults.memory", def.Defaults.Memory)
	l.v.SetDefault("defaults.sleep", def.Defaults.Sleep)
	l.v.SetDefault("defaults.tries", def.Defaults.Tries)
	l.v.SetDefault("defaults.timeout", def.Defaults.Timeout)

	l.v.SetDefault("environment", def.Environment)

	l.v.SetDefault("log.level", def.Log.Level)
	l.v.SetDefault("log.format", def.Log.Format)
}
