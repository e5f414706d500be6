// Package config holds evalkit's constants, its evalkit.yaml configuration
// and the logger factory shared by the CLI and embedding programs.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level evalkit.yaml configuration.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// CacheConfig bounds the matcher and signature caches.
type CacheConfig struct {
	// MatchSize is the maximum number of (caller, callee, match-empty) results kept.
	MatchSize int `yaml:"match_size,omitempty"`

	// SignatureSize is the maximum number of invocable signatures kept.
	SignatureSize int `yaml:"signature_size,omitempty"`

	// TTL expires entries after the given duration (e.g. "10m").
	// Empty means entries only leave on eviction.
	TTL string `yaml:"ttl,omitempty"`

	ttl time.Duration
}

// LogConfig selects logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // text | json
}

// MetricsConfig names the Prometheus namespace.
type MetricsConfig struct {
	Namespace string `yaml:"namespace,omitempty"`
}

// Default returns the configuration used when no evalkit.yaml is present.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses an evalkit.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses evalkit.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for evalkit.yaml starting from dir and walking up
// to parent directories.
// Returns an empty path and nil error if no file is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	if c.Cache.MatchSize < 0 {
		return fmt.Errorf("%s: cache.match_size must not be negative", path)
	}
	if c.Cache.SignatureSize < 0 {
		return fmt.Errorf("%s: cache.signature_size must not be negative", path)
	}
	if c.Cache.TTL != "" {
		ttl, err := time.ParseDuration(c.Cache.TTL)
		if err != nil {
			return fmt.Errorf("%s: cache.ttl: %w", path, err)
		}
		if ttl < 0 {
			return fmt.Errorf("%s: cache.ttl must not be negative", path)
		}
		c.Cache.ttl = ttl
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%s: log.level: %w", path, err)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%s: log.format %q is not one of text, json", path, c.Log.Format)
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Cache.MatchSize == 0 {
		c.Cache.MatchSize = DefaultMatchCacheSize
	}
	if c.Cache.SignatureSize == 0 {
		c.Cache.SignatureSize = DefaultSignatureCacheSize
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// CacheTTL returns the parsed cache.ttl, zero when unset.
func (c *CacheConfig) CacheTTL() time.Duration {
	return c.ttl
}

// NewLogger builds a logrus logger writing to w according to the log section.
func (c *LogConfig) NewLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(c.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger
}
