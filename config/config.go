package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds runtime configuration.
type Config struct {
	FPS             int           `mapstructure:"fps"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	Mouse           bool          `mapstructure:"mouse"`
	AltScreen       bool          `mapstructure:"alt_screen"`
	Accessible      bool          `mapstructure:"accessible"`
	ReduceMotion    bool          `mapstructure:"reduce_motion"`
	NoColor         bool          `mapstructure:"no_color"`
	Log             LogConfig     `mapstructure:"log"`
	Journal         JournalConfig `mapstructure:"journal"`
}

// LogConfig controls the debug log. The terminal belongs to the renderer,
// so logs only ever go to a file.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// JournalConfig points at the session journal database. Empty disables it.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// flagKeys maps flag names that do not follow the key naming.
var flagKeys = map[string]string{
	"log-file":  "log.file",
	"log-level": "log.level",
	"journal":   "journal.path",
}

// Load reads configuration from defaults, the config file, FERMENT_ env
// vars and, when fs is non-nil, command-line flags, in increasing priority.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("fps", 60)
	v.SetDefault("shutdown_timeout", 2*time.Second)
	v.SetDefault("tick_interval", time.Duration(0))
	v.SetDefault("mouse", true)
	v.SetDefault("alt_screen", true)
	v.SetDefault("accessible", false)
	v.SetDefault("reduce_motion", false)
	v.SetDefault("no_color", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("journal.path", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FERMENT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ferment"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FERMENT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return Config{}, bindErr
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Path returns the config file location Save writes to.
func Path() string {
	if path := os.Getenv("FERMENT_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "ferment", "config.toml")
}

// Save writes cfg to Path, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("fps", cfg.FPS)
	v.Set("shutdown_timeout", cfg.ShutdownTimeout.String())
	v.Set("tick_interval", cfg.TickInterval.String())
	v.Set("mouse", cfg.Mouse)
	v.Set("alt_screen", cfg.AltScreen)
	v.Set("accessible", cfg.Accessible)
	v.Set("reduce_motion", cfg.ReduceMotion)
	v.Set("no_color", cfg.NoColor)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.level", cfg.Log.Level)
	v.Set("journal.path", cfg.Journal.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
