// Package config loads the YAML configuration shared by the rhymetagger
// command and the HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/versotym/rhymetagger"
)

// Config is the top-level configuration file.
type Config struct {
	// Tagger holds training and tagging parameters.
	Tagger rhymetagger.Settings `yaml:"tagger"`
	// AlphabetFile optionally points to a custom alphabet definition;
	// it replaces the built-in alphabet named in Tagger.
	AlphabetFile string        `yaml:"alphabet_file,omitempty"`
	Store        StoreConfig   `yaml:"store"`
	Server       ServerConfig  `yaml:"server"`
	Logging      LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the SQLite corpus and model store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures cmd/server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// ModelFile is a JSON model loaded at startup. When empty the latest
	// model in the store is used.
	ModelFile      string   `yaml:"model_file,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Tagger: rhymetagger.DefaultSettings(),
		Store: StoreConfig{
			Path: "rhymetagger.db",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("RHYMETAGGER_DB"); path != "" {
		c.Store.Path = path
	}
	if addr := os.Getenv("RHYMETAGGER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if lang := os.Getenv("RHYMETAGGER_LANG"); lang != "" {
		c.Tagger.Language = lang
	}
}

// Alphabet returns the configured alphabet, loading AlphabetFile if set.
func (c *Config) Alphabet() (*rhymetagger.Alphabet, error) {
	if c.AlphabetFile != "" {
		return rhymetagger.LoadAlphabet(c.AlphabetFile)
	}
	return rhymetagger.AlphabetByName(c.Tagger.Alphabet)
}

// Validate checks the configuration before any processing starts.
func (c *Config) Validate() error {
	var errs []error
	if c.AlphabetFile == "" {
		if err := c.Tagger.Validate(); err != nil {
			errs = append(errs, err)
		}
	} else {
		s := c.Tagger
		s.Alphabet = rhymetagger.IPA.Name()
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, err := os.Stat(c.AlphabetFile); err != nil {
			errs = append(errs, fmt.Errorf("alphabet_file: %w", err))
		}
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path must be set"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// Logger builds a zap logger. verbose forces the debug level.
func (c LoggingConfig) Logger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger, nil
}
