package config

import (
	"fmt"
	"os"
	"time"

	"problemtracker/internal/client/api"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const DefaultLogLevel = "warn"

// Config holds tracker client settings.
type Config struct {
	BaseURL string `yaml:"baseURL"`
	// Timeout bounds each request; zero leaves it to the transport.
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"logLevel"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

// Load reads a YAML config file. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		applyDefaults(&cfg)
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file failed: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("invalid logLevel %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = api.DefaultBaseURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}
