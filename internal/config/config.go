package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docengine/internal/docs"
	derrors "git.home.luguber.info/inful/docengine/internal/errors"
	"git.home.luguber.info/inful/docengine/internal/retry"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "docengine.yaml"

// Config represents the application configuration
type Config struct {
	Content ContentConfig `yaml:"content"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ContentConfig describes the content tree and how it is refreshed.
type ContentConfig struct {
	Root            string      `yaml:"root"`
	Extensions      []string    `yaml:"extensions,omitempty"`
	IndexNames      []string    `yaml:"index_names,omitempty"`
	KeepIndexSlugs  bool        `yaml:"keep_index_slugs,omitempty"`
	Watch           bool        `yaml:"watch"`
	Debounce        Duration    `yaml:"debounce,omitempty"`
	RebuildInterval Duration    `yaml:"rebuild_interval,omitempty"`
	Retry           RetryConfig `yaml:"retry"`
}

// RetryConfig controls backoff for failed watch and scheduled rebuilds.
type RetryConfig struct {
	Backoff    retry.BackoffMode `yaml:"backoff"`
	Initial    Duration          `yaml:"initial"`
	Max        Duration          `yaml:"max"`
	MaxRetries int               `yaml:"max_retries"`
}

// Policy converts the settings into a retry policy.
func (r RetryConfig) Policy() retry.Policy {
	return retry.NewPolicy(r.Backoff, r.Initial.Std(), r.Max.Std(), r.MaxRetries)
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	ReadTimeout    Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout   Duration `yaml:"write_timeout,omitempty"`
	IdleTimeout    Duration `yaml:"idle_timeout,omitempty"`
	RequestTimeout Duration `yaml:"request_timeout,omitempty"`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DocsOptions converts the content settings into loader options.
func (c ContentConfig) DocsOptions() docs.Options {
	return docs.Options{
		Extensions:     c.Extensions,
		IndexNames:     c.IndexNames,
		KeepIndexSlugs: c.KeepIndexSlugs,
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, derrors.ConfigNotFound(configPath)
		}
		return nil, derrors.ConfigInvalid(configPath, err)
	}

	cfg, err := parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, derrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if derrors.IsCategory(err, derrors.CategoryConfig) {
		if _, statErr := os.Stat(configPath); errors.Is(statErr, os.ErrNotExist) {
			return Default(), nil
		}
	}
	return cfg, err
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Content.Root == "" {
		cfg.Content.Root = "docs"
	}
	if len(cfg.Content.Extensions) == 0 {
		cfg.Content.Extensions = append([]string(nil), docs.DefaultExtensions...)
	}
	if len(cfg.Content.IndexNames) == 0 {
		cfg.Content.IndexNames = append([]string(nil), docs.DefaultIndexNames...)
	}
	if cfg.Content.Retry == (RetryConfig{}) {
		cfg.Content.Retry.MaxRetries = retry.DefaultPolicy().MaxRetries
	}
	if cfg.Content.Retry.Backoff == "" {
		cfg.Content.Retry.Backoff = retry.BackoffLinear
	}
	if cfg.Content.Retry.Initial == 0 {
		cfg.Content.Retry.Initial = Duration(time.Second)
	}
	if cfg.Content.Retry.Max == 0 {
		cfg.Content.Retry.Max = Duration(30 * time.Second)
	}
	if cfg.Content.Debounce == 0 {
		cfg.Content.Debounce = Duration(500 * time.Millisecond)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = Duration(15 * time.Second)
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = Duration(15 * time.Second)
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = Duration(60 * time.Second)
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = Duration(30 * time.Second)
	}

	cfg.Log.Level = NormalizeLogLevel(string(cfg.Log.Level))
	cfg.Log.Format = NormalizeLogFormat(string(cfg.Log.Format))
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ValidationFailed("config", fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}

	example := Default()
	example.Content.Root = "./docs"
	example.Content.Watch = true
	example.Content.RebuildInterval = Duration(time.Hour)
	example.Metrics.Enabled = true

	data, err := yaml.Marshal(example)
	if err != nil {
		return derrors.InternalError("failed to marshal config", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return derrors.FileSystemError("write", configPath, err)
	}
	return nil
}
