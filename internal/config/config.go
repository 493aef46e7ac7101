// Package config loads chat-memory settings from defaults, an optional yaml
// file, and CHAT_MEMORY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rcliao/chat-memory/internal/model"
)

// EnvPrefix is the prefix of environment overrides, e.g. CHAT_MEMORY_DATA_DIR.
const EnvPrefix = "CHAT_MEMORY"

// Config is the resolved configuration.
type Config struct {
	DataDir         string        `mapstructure:"data_dir"`
	BaseName        string        `mapstructure:"base_name"`
	PreferredFormat string        `mapstructure:"preferred_format"`
	Log             LogConfig     `mapstructure:"log"`
	Journal         JournalConfig `mapstructure:"journal"`
	Context         ContextConfig `mapstructure:"context"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug or info
	Format string `mapstructure:"format"` // text or json
	File   string `mapstructure:"file"`
}

// JournalConfig configures the mutation journal.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // defaults to <data_dir>/journal.db
}

// ContextConfig configures prompt context assembly.
type ContextConfig struct {
	Budget int `mapstructure:"budget"`
}

// Format returns PreferredFormat as a model.Format.
func (c *Config) Format() model.Format {
	return model.Format(c.PreferredFormat)
}

// JournalPath returns the journal database path.
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return filepath.Join(c.DataDir, "journal.db")
}

// DefaultDataDir is ~/.chat-memory, or .chat-memory when there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chat-memory"
	}
	return filepath.Join(home, ".chat-memory")
}

// Load resolves the configuration. cfgFile, when set, must exist; otherwise
// chat-memory.yaml is looked up in the working directory and the default
// data dir, and a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("chat-memory")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDataDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("base_name", "memory")
	v.SetDefault("preferred_format", string(model.FormatJSON))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", "")
	v.SetDefault("context.budget", 1000)
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir cannot be empty")
	}
	if !c.Format().Valid() {
		return fmt.Errorf("config: preferred_format %q is not one of json, csv, txt", c.PreferredFormat)
	}
	switch c.Log.Level {
	case "debug", "info":
	default:
		return fmt.Errorf("config: log.level %q is not one of debug, info", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format %q is not one of text, json", c.Log.Format)
	}
	if c.Context.Budget < 0 {
		return fmt.Errorf("config: context.budget must not be negative, got %d", c.Context.Budget)
	}
	return nil
}
