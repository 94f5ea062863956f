package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Analyzer holds all configuration for the npsanalyze tool.
type Analyzer struct {
	// RSA key used to recover session keys
	PrivateKey PrivateKeyConfig `yaml:"private_key"`

	Log LogConfig `yaml:"log"`

	// Batch analysis concurrency
	Workers int `yaml:"workers"`

	// Login sessions
	SessionTTL int `yaml:"session_ttl"` // seconds

	// Report format: text or yaml
	Output string `yaml:"output"`
}

// PrivateKeyConfig locates the RSA private key.
type PrivateKeyConfig struct {
	Path     string `yaml:"path"`
	Password string `yaml:"password"` // PKCS#12 only
}

// LogConfig configures the default slog logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return level, nil
}

// NewHandler creates the slog handler described by l, writing to w.
func (l LogConfig) NewHandler(w io.Writer) (slog.Handler, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(l.Format) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", l.Format)
	}
}

// SessionTTLDuration returns SessionTTL as a duration.
func (c Analyzer) SessionTTLDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

// Validate checks values that cannot be fixed up silently.
func (c Analyzer) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Output {
	case "text", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session_ttl must not be negative, got %d", c.SessionTTL)
	}
	return nil
}

// DefaultAnalyzer returns Analyzer config with sensible defaults.
func DefaultAnalyzer() Analyzer {
	return Analyzer{
		PrivateKey: PrivateKeyConfig{
			Path: "config/private_key.pem",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Workers:    runtime.NumCPU(),
		SessionTTL: 3600,
		Output:     "text",
	}
}

// LoadAnalyzer loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadAnalyzer(path string) (Analyzer, error) {
	cfg := DefaultAnalyzer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
