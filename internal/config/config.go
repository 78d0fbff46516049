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

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
	Display DisplayConfig `mapstructure:"display"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ViewsDir        string        `mapstructure:"views_dir"`
	PublicDir       string        `mapstructure:"public_dir"`
}

type StoreConfig struct {
	Driver   string        `mapstructure:"driver"` // postgres, sqlite, mongo; empty detects from URI
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"` // mongo only
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

type DisplayConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Location resolves the display timezone.
func (d DisplayConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}

// envAliases maps config keys to the plain environment variables the
// service has always read. The first non-empty variable wins.
var envAliases = map[string][]string{
	"server.port":             {"PORT"},
	"server.shutdown_timeout": {"SHUTDOWN_TIMEOUT"},
	"server.views_dir":        {"VIEWS_DIR"},
	"server.public_dir":       {"PUBLIC_DIR"},
	"store.driver":            {"STORE_DRIVER"},
	"store.uri":               {"MONGO_URI", "DATABASE_URL"},
	"store.database":          {"MONGO_DATABASE"},
	"store.timeout":           {"STORE_TIMEOUT"},
	"log.level":               {"LOG_LEVEL"},
	"log.format":              {"LOG_FORMAT"},
	"display.timezone":        {"TZ_DISPLAY"},
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"port":         "server.port",
	"store-driver": "store.driver",
	"store-uri":    "store.uri",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// Load reads configuration from defaults, an optional YAML file, the
// environment and flags, in increasing priority. An explicit configPath
// must exist; otherwise config.yaml is looked up in the working directory
// and in ~/.exercise-tracker.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".exercise-tracker"))
		}
	}

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.views_dir", "views")
	v.SetDefault("server.public_dir", "public")
	v.SetDefault("store.driver", "")
	v.SetDefault("store.uri", "exercise_tracker.db")
	v.SetDefault("store.database", "exercise_tracker")
	v.SetDefault("store.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("display.timezone", "UTC")

	// EXERCISE_TRACKER_SERVER_PORT style names work for every key.
	v.SetEnvPrefix("EXERCISE_TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
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

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}
