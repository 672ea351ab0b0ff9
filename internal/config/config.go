// Package config loads cratesync settings from flags, the environment, and
// an optional TOML file.
//
// Precedence, highest first: command-line flags, CRATESYNC_* environment
// variables, the config file, built-in defaults. The config file is the
// --config path if given, otherwise cratesync.toml in the working directory
// if one exists.
package config

import (
	stderrors "errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/cratesync/pkg/errors"
)

// EnvPrefix is prepended to every key to form its environment variable.
const EnvPrefix = "CRATESYNC"

// Config is the resolved configuration.
type Config struct {
	ArchiveDir     string        `mapstructure:"archive_dir"`
	IndexDir       string        `mapstructure:"index_dir"`
	Mirror         string        `mapstructure:"mirror"`
	All            bool          `mapstructure:"all"`
	MaxPrevious    int           `mapstructure:"max_previous"`
	UserAgent      string        `mapstructure:"user_agent"`
	ArchiveRetries int           `mapstructure:"archive_retries"`
	Timeout        time.Duration `mapstructure:"timeout"`

	LogFile       string `mapstructure:"log_file"`        // Also write logs here, rotated
	LogMaxSize    int    `mapstructure:"log_max_size"`    // Megabytes before rotation
	LogMaxBackups int    `mapstructure:"log_max_backups"` // Rotated files kept

	// File is the config file that was read, or "" if none.
	File string `mapstructure:"-"`
}

// Flags maps config keys to the command-line flags that override them.
// Keys whose flag a command does not define are left to the other sources.
var Flags = map[string]string{
	"archive_dir":     "output",
	"index_dir":       "index-dir",
	"mirror":          "registry",
	"all":             "all",
	"max_previous":    "max-previous",
	"user_agent":      "user-agent",
	"archive_retries": "retries",
	"timeout":         "timeout",
	"log_file":        "log-file",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("archive_dir", "crates")
	v.SetDefault("index_dir", "index")
	v.SetDefault("mirror", "")
	v.SetDefault("all", false)
	v.SetDefault("max_previous", 0)
	v.SetDefault("user_agent", "")
	v.SetDefault("archive_retries", 5)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size", 100)
	v.SetDefault("log_max_backups", 3)
}

// Load resolves the configuration. path selects the config file; "" looks
// for cratesync.toml in the working directory and tolerates its absence.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range Flags {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bind flag --%s", name)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName("cratesync")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.absolutize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that cannot be combined or are out of range.
func (c *Config) Validate() error {
	switch {
	case c.MaxPrevious < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max_previous must not be negative, got %d", c.MaxPrevious)
	case c.All && c.MaxPrevious > 0:
		return errors.New(errors.ErrCodeInvalidInput, "all and max_previous are mutually exclusive")
	case c.ArchiveRetries < 1:
		return errors.New(errors.ErrCodeInvalidInput, "archive_retries must be at least 1, got %d", c.ArchiveRetries)
	case c.Timeout < 0:
		return errors.New(errors.ErrCodeInvalidInput, "timeout must not be negative, got %s", c.Timeout)
	case strings.TrimSpace(c.ArchiveDir) == "":
		return errors.New(errors.ErrCodeInvalidInput, "archive_dir must not be empty")
	case c.LogMaxSize < 1 || c.LogMaxBackups < 0:
		return errors.New(errors.ErrCodeInvalidInput, "log_max_size must be positive and log_max_backups not negative")
	case strings.TrimSpace(c.IndexDir) == "":
		return errors.New(errors.ErrCodeInvalidInput, "index_dir must not be empty")
	case sameDir(c.ArchiveDir, c.IndexDir):
		return errors.New(errors.ErrCodeInvalidInput, "archive_dir and index_dir must differ, both are %s", c.ArchiveDir)
	}
	return nil
}

// sameDir reports whether a and b name the same directory after cleaning.
func sameDir(a, b string) bool {
	if absA, err := filepath.Abs(a); err == nil {
		a = absA
	}
	if absB, err := filepath.Abs(b); err == nil {
		b = absB
	}
	return a == b
}

func (c *Config) absolutize() error {
	for _, dir := range []*string{&c.ArchiveDir, &c.IndexDir, &c.Mirror, &c.LogFile} {
		if *dir == "" {
			continue
		}
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", *dir)
		}
		*dir = abs
	}
	return nil
}
