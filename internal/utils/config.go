package utils

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

// Config holds envcheck settings resolved from defaults, the config file,
// ENVCHECK_* environment variables and command-line flags, in increasing
// order of precedence.
type Config struct {
	PHPBinary    string        `mapstructure:"php_binary"`
	RuleSet      string        `mapstructure:"ruleset"`
	ProjectDir   string        `mapstructure:"project_dir"`
	AppDir       string        `mapstructure:"app_dir"`
	Snapshot     string        `mapstructure:"snapshot"`
	Format       string        `mapstructure:"format"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

const (
	envPrefix         = "ENVCHECK"
	defaultConfigDir  = ".envcheck"
	defaultConfigName = "config"
)

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	return Config{
		PHPBinary:    "php",
		RuleSet:      "standard",
		ProjectDir:   ".",
		AppDir:       "app",
		Format:       "text",
		LogLevel:     "info",
		LogFormat:    "text",
		ProbeTimeout: 10 * time.Second,
	}
}

// LoadConfig reads configuration. An explicit configFile must exist; without
// one, $HOME/.envcheck/config.yaml is used when present. flags may be nil;
// when given, flags that were set on the command line override everything
// else. Flag names use dashes (php-binary) and map to the underscore keys.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("php_binary", defaults.PHPBinary)
	v.SetDefault("ruleset", defaults.RuleSet)
	v.SetDefault("project_dir", defaults.ProjectDir)
	v.SetDefault("app_dir", defaults.AppDir)
	v.SetDefault("snapshot", defaults.Snapshot)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("probe_timeout", defaults.ProbeTimeout)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, defaultConfigDir))
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !isConfigKey(key) {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func isConfigKey(key string) bool {
	switch key {
	case "php_binary", "ruleset", "project_dir", "app_dir", "snapshot",
		"format", "log_level", "log_format", "probe_timeout":
		return true
	}
	return false
}
