package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/logging"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "DESSERT_"

// Config holds the defaults for the CLI commands. Command-line flags
// override these values.
type Config struct {
	Addr         string        `env:"ADDR" envDefault:":8080"`
	MaxDepth     int           `env:"MAX_DEPTH" envDefault:"128"`
	Pretty       bool          `env:"PRETTY" envDefault:"false"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty    bool          `env:"LOG_PRETTY" envDefault:"false"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"10s"`
	MaxBodyBytes int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envSeparator:","`
	OTelEndpoint string        `env:"OTEL_ENDPOINT"`
	OTelService  string        `env:"OTEL_SERVICE" envDefault:"dessert"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) { return LoadFrom(nil) }

// LoadFrom reads the configuration from environ, or from the process
// environment when environ is nil.
func LoadFrom(environ map[string]string) (*Config, error) {
	var c Config
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("config: %sMAX_DEPTH must be positive, got %d", EnvPrefix, c.MaxDepth)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: %sTIMEOUT must not be negative", EnvPrefix)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("config: %sMAX_BODY_BYTES must not be negative", EnvPrefix)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %sLOG_LEVEL: %w", EnvPrefix, err)
	}
	return nil
}
