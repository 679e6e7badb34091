// Package config loads pqbench service configuration from defaults, an
// optional YAML file, and PQBENCH_* environment variables, in ascending
// precedence.
package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/pzverkov/pqbench/internal/constants"
)

// Config holds the full service configuration.
type Config struct {
	// Host is the listen address of the dashboard server.
	Host string `mapstructure:"host"`

	// Port is the listen port of the dashboard server.
	Port int `mapstructure:"port"`

	// LogLevel is a zerolog level name (trace, debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFormat selects log output: "console" for human-readable,
	// "json" for machine-readable.
	LogFormat string `mapstructure:"log_format"`

	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MetricsConfig controls the observability endpoints.
type MetricsConfig struct {
	// Enabled mounts the Prometheus /metrics endpoint. The health
	// endpoints are always served.
	Enabled bool `mapstructure:"enabled"`

	// Namespace prefixes every exported Prometheus metric.
	Namespace string `mapstructure:"namespace"`
}

// Load reads configuration. path may name a config file explicitly; when
// empty, pqbench.yaml is searched for in the working directory and
// /etc/pqbench. A missing config file is not an error, the defaults and
// environment stand alone.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pqbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/pqbench")
	}

	v.SetEnvPrefix("PQBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Cloud platforms commonly inject the listen port as plain PORT.
	if err := v.BindEnv("port", "PQBENCH_PORT", "PORT"); err != nil {
		return nil, errors.Wrap(err, "binding port env")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "pqbench")
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return errors.Errorf("invalid log format %q, want console or json", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.Errorf("invalid shutdown timeout %s", c.ShutdownTimeout)
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Level returns the parsed zerolog level.
// Call Validate first; an unparseable level falls back to info.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
