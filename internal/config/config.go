// Package config loads the butina command-line configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/butina"
	"github.com/hupe1980/butina/fpfile"
	"github.com/hupe1980/butina/similarity"
)

// Config holds the CLI configuration.
type Config struct {
	Clustering ClusteringConfig `yaml:"clustering"`
	Storage    StorageConfig    `yaml:"storage"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ClusteringConfig mirrors butina.Config.
type ClusteringConfig struct {
	Threshold     float64 `yaml:"threshold"`
	Metric        string  `yaml:"metric"` // tanimoto, dice
	Workers       int     `yaml:"workers"`
	BlockSize     int     `yaml:"block_size"`
	MemoryLimitMB int64   `yaml:"memory_limit_mb"` // 0 = unlimited
	SortBySize    bool    `yaml:"sort_by_size"`
	NoReordering  bool    `yaml:"no_reordering"`
}

// StorageConfig holds remote object store settings.
type StorageConfig struct {
	// CacheDir keeps local copies of remote libraries. Empty disables caching.
	CacheDir        string      `yaml:"cache_dir"`
	IOLimitMBPerSec int64       `yaml:"io_limit_mb_per_sec"` // 0 = unlimited
	S3              S3Config    `yaml:"s3"`
	MinIO           MinIOConfig `yaml:"minio"`
}

// S3Config holds AWS S3 settings. Credentials come from the default chain.
type S3Config struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// MinIOConfig holds MinIO settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
	Region    string `yaml:"region"`
}

// OutputConfig controls result encoding.
type OutputConfig struct {
	Format      string `yaml:"format"`      // yaml, fps
	Compression string `yaml:"compression"` // none, lz4, zstd (binary libraries)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	File   string `yaml:"file"`   // optional JSON log file
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	// Textfile is written in the Prometheus text format after each run.
	Textfile  string `yaml:"textfile"`
	Namespace string `yaml:"namespace"`
}

// Default returns a configuration with defaults applied.
func Default() Config {
	c := Config{Clustering: ClusteringConfig{Threshold: butina.DefaultThreshold}}
	c.ApplyDefaults()
	return c
}

// Load reads configuration from a YAML file. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	// Zero is a valid threshold, so it is preset rather than defaulted.
	cfg := Config{Clustering: ClusteringConfig{Threshold: butina.DefaultThreshold}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	def := butina.DefaultConfig()

	if c.Clustering.Metric == "" {
		c.Clustering.Metric = def.Metric.String()
	}
	if c.Clustering.BlockSize <= 0 {
		c.Clustering.BlockSize = def.PairsPerBlock
	}
	if c.Output.Format == "" {
		c.Output.Format = "yaml"
	}
	if c.Output.Compression == "" {
		c.Output.Compression = fpfile.CompressionZSTD.String()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "butina"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Clustering.Threshold < 0 || c.Clustering.Threshold > 1 {
		return fmt.Errorf("clustering.threshold must be between 0 and 1, got %g", c.Clustering.Threshold)
	}
	if _, err := similarity.ParseMetric(c.Clustering.Metric); err != nil {
		return fmt.Errorf("clustering.metric: %w", err)
	}
	if c.Clustering.Workers < 0 {
		return fmt.Errorf("clustering.workers must not be negative, got %d", c.Clustering.Workers)
	}
	if c.Clustering.MemoryLimitMB < 0 {
		return fmt.Errorf("clustering.memory_limit_mb must not be negative, got %d", c.Clustering.MemoryLimitMB)
	}
	if c.Storage.IOLimitMBPerSec < 0 {
		return fmt.Errorf("storage.io_limit_mb_per_sec must not be negative, got %d", c.Storage.IOLimitMBPerSec)
	}
	switch c.Output.Format {
	case "yaml", "fps":
	default:
		return fmt.Errorf("output.format must be \"yaml\" or \"fps\", got %q", c.Output.Format)
	}
	if _, err := fpfile.ParseCompression(c.Output.Compression); err != nil {
		return fmt.Errorf("output.compression: %w", err)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}

// RunOptions converts the clustering section into butina options.
func (c *Config) RunOptions() ([]butina.Option, error) {
	metric, err := similarity.ParseMetric(c.Clustering.Metric)
	if err != nil {
		return nil, err
	}

	return []butina.Option{
		butina.WithThreshold(c.Clustering.Threshold),
		butina.WithMetric(metric),
		butina.WithWorkers(c.Clustering.Workers),
		butina.WithBlockSize(c.Clustering.BlockSize),
		butina.WithMemoryLimit(c.Clustering.MemoryLimitMB << 20),
		butina.WithSortBySize(c.Clustering.SortBySize),
		butina.WithReordering(!c.Clustering.NoReordering),
	}, nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
