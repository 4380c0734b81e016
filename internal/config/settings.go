// Package config loads run settings and the game-data catalog.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-pull-condenser/internal/presentation/interaction"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configName is the settings file name without extension.
const configName = ".pull-condenser"

// configType is the settings file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for settings.
const envPrefix = "PULLCONDENSER"

// Defaults.
const (
	DefaultWindow        = time.Second
	DefaultBotchedMargin = 0
	DefaultLogLevel      = "warn"
	DefaultOutput        = "table"
	DefaultSort          = "time"
)

// Output formats understood by the formatter package.
var outputFormats = []string{"json", "table", "csv", "summary"}

// Settings is the run configuration.
// Field tags use mapstructure for viper unmarshalling.
type Settings struct {
	Window        time.Duration `mapstructure:"window"`
	BotchedMargin int           `mapstructure:"botched_margin"`
	AbilitiesOnly bool          `mapstructure:"abilities_only"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFile       string        `mapstructure:"log_file"`
	// Catalog is a path to a catalog YAML file. Empty selects the built-in catalog.
	Catalog string `mapstructure:"catalog"`
	Output  string `mapstructure:"output"`
	// Sort orders condensed sets for display: time, damage, hits or botched,
	// prefixed with "-" for descending.
	Sort string `mapstructure:"sort"`
}

// Sentinel errors for settings validation.
var (
	// ErrInvalidWindow indicates a grouping window shorter than one millisecond.
	ErrInvalidWindow = errors.New("window must be at least 1ms")
	// ErrInvalidBotchedMargin indicates a margin outside 0-100.
	ErrInvalidBotchedMargin = errors.New("botched_margin must be between 0 and 100")
	// ErrInvalidOutput indicates an unknown output format.
	ErrInvalidOutput = errors.New("unknown output format")
	// ErrInvalidSort indicates an unknown sort key.
	ErrInvalidSort = errors.New("unknown sort key")
)

// flagKeys maps command-line flag names to settings keys.
var flagKeys = map[string]string{
	"window":         "window",
	"botched-margin": "botched_margin",
	"abilities-only": "abilities_only",
	"log-level":      "log_level",
	"log-file":       "log_file",
	"catalog":        "catalog",
	"output":         "output",
	"sort":           "sort",
}

// LoadSettings loads settings from defaults, the settings file, PULLCONDENSER_* env vars
// and flags, in increasing order of precedence. Only flags the user set override.
// If path is empty the file is searched in CWD and $HOME; a missing file is not an error.
func LoadSettings(path string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return &s, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("window", DefaultWindow)
	v.SetDefault("botched_margin", DefaultBotchedMargin)
	v.SetDefault("abilities_only", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("catalog", "")
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("sort", DefaultSort)
}

// Validate checks Settings invariants and returns the first error found.
func (s *Settings) Validate() error {
	if s.Window < time.Millisecond {
		return ErrInvalidWindow
	}
	if s.BotchedMargin < 0 || s.BotchedMargin > 100 {
		return ErrInvalidBotchedMargin
	}
	s.Sort = strings.ToLower(strings.TrimSpace(s.Sort))
	if _, err := interaction.ParseSort(s.Sort); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSort, err)
	}
	s.Output = strings.ToLower(strings.TrimSpace(s.Output))
	for _, f := range outputFormats {
		if s.Output == f {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidOutput, s.Output, strings.Join(outputFormats, ", "))
}
