// Package config loads runtime configuration from the process environment
// (and an optional config file), using viper the way the example service
// configs in this corpus do.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings the runtime needs before the first request is
// served.
type Config struct {
	Port    int    `mapstructure:"port"`
	Host    string `mapstructure:"host"`
	Environment string `mapstructure:"environment"`

	ModuleInitTimeout  time.Duration `mapstructure:"module_init_timeout"`
	ShutdownDrainTimeout time.Duration `mapstructure:"shutdown_drain_timeout"`

	RequestIDHeader string `mapstructure:"request_id_header"`
}

// Load reads configuration from environment variables (prefixed GATI_) with
// sensible defaults, and from a config file named "gati" on the current
// path if one is present. Environment variables always take precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("environment", "development")
	v.SetDefault("module_init_timeout", 30*time.Second)
	v.SetDefault("shutdown_drain_timeout", 10*time.Second)
	v.SetDefault("request_id_header", "X-Request-Id")

	v.SetEnvPrefix("gati")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gati")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Addr returns the host:port string to bind the HTTP server to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether Environment is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
