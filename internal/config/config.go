// Package config loads kuocli settings from the workspace.
//
// Values are resolved with viper in this order, highest first: command line
// flags, KUOCLI_* environment variables (a .env file in the workspace root is
// loaded into the environment first), kuocli.yaml or .kuocli.yaml in the
// workspace root, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RicardoJBarrios/kuocli/pkg/generator"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
)

// EnvPrefix prefixes every environment variable read by kuocli.
const EnvPrefix = "KUOCLI"

// ConfigFiles are the config file names looked up in the workspace root.
var ConfigFiles = []string{"kuocli.yaml", "kuocli.yml", ".kuocli.yaml", ".kuocli.yml"}

// Config holds the resolved settings.
type Config struct {
	Verbose        bool   `mapstructure:"verbose"`
	DryRun         bool   `mapstructure:"dry_run"`
	SkipInstall    bool   `mapstructure:"skip_install"`
	SkipFormat     bool   `mapstructure:"skip_format"`
	Interactive    bool   `mapstructure:"interactive"`
	OnConflict     string `mapstructure:"on_conflict"`
	PackageManager string `mapstructure:"package_manager"`
	Gitflow        bool   `mapstructure:"gitflow"`
	LogLevel       string `mapstructure:"log_level"`

	// Root is the workspace directory the config was loaded from.
	Root string `mapstructure:"-"`
	// File is the config file used, empty when none was found.
	File string `mapstructure:"-"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"verbose":         "verbose",
	"dry-run":         "dry_run",
	"skip-install":    "skip_install",
	"skip-format":     "skip_format",
	"interactive":     "interactive",
	"on-conflict":     "on_conflict",
	"package-manager": "package_manager",
	"gitflow":         "gitflow",
	"log-level":       "log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("skip_install", false)
	v.SetDefault("skip_format", false)
	v.SetDefault("interactive", false)
	v.SetDefault("on_conflict", generator.StrategyOverwrite)
	v.SetDefault("package_manager", "")
	v.SetDefault("gitflow", true)
	v.SetDefault("log_level", "warn")
}

// Load resolves the configuration of the workspace at root. flags may be
// nil; only flags that were set on the command line override other sources.
func Load(root string, flags *pflag.FlagSet) (*Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}

	if err := loadDotEnv(abs); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	file := findConfigFile(abs)
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(file), err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Root = abs
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func findConfigFile(root string) string {
	for _, name := range ConfigFiles {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.OnConflict) {
	case generator.StrategyOverwrite, generator.StrategySkip, generator.StrategyPrompt:
	default:
		return fmt.Errorf("invalid on_conflict %q (want %s, %s or %s)", c.OnConflict,
			generator.StrategyOverwrite, generator.StrategySkip, generator.StrategyPrompt)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Level is the logger level: debug when verbose, log_level otherwise.
func (c *Config) Level() logger.Level {
	if c.Verbose {
		return logger.LevelDebug
	}
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelWarn
	}
	return level
}
