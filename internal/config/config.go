package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/quotely/signal/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "signalctl.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SIGNALCTL_"

	// DefaultAddr is the default inspector listen address.
	DefaultAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "10s"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverS3     = "s3"
)

// Config is the complete signalctl configuration.
type Config struct {
	// Addr is the inspector listen address.
	Addr string `json:"addr,omitempty" env:"ADDR"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty" env:"LOG_LEVEL"`

	// LogFormat is text or json.
	LogFormat string `json:"logFormat,omitempty" env:"LOG_FORMAT"`

	// ShutdownTimeout is a Go duration string (e.g. "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" env:"SHUTDOWN_TIMEOUT"`

	Store   StoreConfig   `json:"store" envPrefix:"STORE_"`
	Metrics MetricsConfig `json:"metrics" envPrefix:"METRICS_"`
	Tracing TracingConfig `json:"tracing" envPrefix:"TRACING_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// StoreConfig selects where signal snapshots are persisted.
type StoreConfig struct {
	// Driver is memory, sqlite or s3.
	Driver string `json:"driver,omitempty" env:"DRIVER"`

	// Path is the SQLite database file.
	Path string `json:"path,omitempty" env:"PATH"`

	// Bucket, Prefix and Region configure the S3 driver.
	Bucket string `json:"bucket,omitempty" env:"BUCKET"`
	Prefix string `json:"prefix,omitempty" env:"PREFIX"`
	Region string `json:"region,omitempty" env:"REGION"`
}

// MetricsConfig controls the Prometheus observer.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" env:"ENABLED"`
	Namespace string `json:"namespace,omitempty" env:"NAMESPACE"`
}

// TracingConfig controls the OpenTelemetry observer.
type TracingConfig struct {
	Enabled bool `json:"enabled" env:"ENABLED"`

	// Pretty indents spans written to stdout.
	Pretty bool `json:"pretty" env:"PRETTY"`
}

// New returns a configuration with every default set.
func New() *Config {
	return &Config{
		Addr:            DefaultAddr,
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: DefaultShutdownTimeout,
		Store: StoreConfig{
			Driver: DriverMemory,
			Prefix: "signals/",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "signal",
		},
	}
}

// Load reads path (or ConfigFileName in the working directory when path
// is empty) and applies environment overrides. A missing default file is
// not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = ConfigFileName
	}

	cfg := New()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(path, data); err != nil {
			return nil, err
		}
		cfg.configPath = path
	case os.IsNotExist(err) && optional:
		// defaults only
	case os.IsNotExist(err):
		return nil, errors.New("C001").
			WithDetail("No configuration file at " + path).
			WithSuggestion("Run 'signalctl config init' or omit --config to use defaults")
	default:
		return nil, errors.New("C001").Wrap(err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

// decode parses data over the defaults, pointing syntax errors at the
// offending line.
func (c *Config) decode(path string, data []byte) error {
	err := json.Unmarshal(data, c)
	if err == nil {
		return nil
	}

	var syntax *json.SyntaxError
	if stderrors.As(err, &syntax) {
		line, col := position(data, syntax.Offset)
		return errors.New("C001").
			WithLocation(path, line, col).
			Wrap(err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
	}
	return errors.New("C001").Wrap(err)
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - (bytes.LastIndexByte(before, '\n') + 1)
	if col < 1 {
		col = 1
	}
	return line, col
}

func (c *Config) applyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.New("C003").Wrap(err)
	}
	return nil
}

// applyDefaults fills in values an override may have blanked.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "signal"
	}
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return errors.New("C002").Wrap(err).
			WithSuggestion("logLevel must be debug, info, warn or error")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.New("C002").
			WithDetail("Unknown logFormat " + c.LogFormat).
			WithSuggestion("logFormat must be text or json")
	}
	if _, err := c.ShutdownDuration(); err != nil {
		return errors.New("C002").Wrap(err).
			WithSuggestion(`shutdownTimeout must be a duration such as "10s"`)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("C002").
				WithDetail("The sqlite store driver needs store.path").
				WithSuggestion("Set store.path or SIGNALCTL_STORE_PATH")
		}
	case DriverS3:
		if c.Store.Bucket == "" {
			return errors.New("C002").
				WithDetail("The s3 store driver needs store.bucket").
				WithSuggestion("Set store.bucket or SIGNALCTL_STORE_BUCKET")
		}
	default:
		return errors.New("C002").
			WithDetail("Unknown store driver " + c.Store.Driver).
			WithSuggestion("store.driver must be memory, sqlite or s3")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// ShutdownDuration parses ShutdownTimeout.
func (c *Config) ShutdownDuration() (time.Duration, error) {
	return time.ParseDuration(c.ShutdownTimeout)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("C001").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("C001").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from, if any.
func (c *Config) Path() string {
	return c.configPath
}
