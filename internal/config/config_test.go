package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/butina"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, butina.DefaultThreshold, cfg.Clustering.Threshold)
	assert.Equal(t, "tanimoto", cfg.Clustering.Metric)
	assert.Positive(t, cfg.Clustering.BlockSize)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "zstd", cfg.Output.Compression)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "butina", cfg.Metrics.Namespace)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	t.Setenv("BUTINA_TEST_SECRET", "s3cr3t")

	cfg, err := Parse([]byte(`
clustering:
  threshold: 0.4
  metric: dice
  workers: 4
  memory_limit_mb: 128
  sort_by_size: true
  no_reordering: true
storage:
  io_limit_mb_per_sec: 50
  minio:
    endpoint: localhost:9000
    access_key: ${BUTINA_TEST_KEY:-minioadmin}
    secret_key: ${BUTINA_TEST_SECRET}
logging:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Clustering.Threshold)
	assert.Equal(t, "dice", cfg.Clustering.Metric)
	assert.Equal(t, 4, cfg.Clustering.Workers)
	assert.Equal(t, int64(128), cfg.Clustering.MemoryLimitMB)
	assert.True(t, cfg.Clustering.SortBySize)
	assert.True(t, cfg.Clustering.NoReordering)
	assert.Equal(t, int64(50), cfg.Storage.IOLimitMBPerSec)
	assert.Equal(t, "minioadmin", cfg.Storage.MinIO.AccessKey)
	assert.Equal(t, "s3cr3t", cfg.Storage.MinIO.SecretKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestParse_ZeroThreshold(t *testing.T) {
	cfg, err := Parse([]byte("clustering:\n  threshold: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Clustering.Threshold)

	cfg, err = Parse([]byte("logging:\n  level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, butina.DefaultThreshold, cfg.Clustering.Threshold)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"threshold", "clustering:\n  threshold: 1.5\n", "clustering.threshold"},
		{"metric", "clustering:\n  metric: cosine\n", "clustering.metric"},
		{"workers", "clustering:\n  workers: -1\n", "clustering.workers"},
		{"memory", "clustering:\n  memory_limit_mb: -1\n", "clustering.memory_limit_mb"},
		{"io limit", "storage:\n  io_limit_mb_per_sec: -2\n", "storage.io_limit_mb_per_sec"},
		{"format", "output:\n  format: csv\n", "output.format"},
		{"compression", "output:\n  compression: gzip\n", "output.compression"},
		{"level", "logging:\n  level: loud\n", "logging.level"},
		{"log format", "logging:\n  format: xml\n", "logging.format"},
		{"syntax", "clustering: [\n", "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "butina.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clustering:\n  threshold: 0.2\n"), 0o600))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Clustering.Threshold)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunOptions(t *testing.T) {
	cfg := Default()
	cfg.Clustering.Threshold = 0.25
	cfg.Clustering.Metric = "dice"
	cfg.Clustering.MemoryLimitMB = 2
	cfg.Clustering.NoReordering = true

	opts, err := cfg.RunOptions()
	require.NoError(t, err)

	res, err := butina.RunFingerprints(t.Context(), nil, append(opts, butina.WithLogger(butina.NoopLogger()))...)
	require.NoError(t, err)
	assert.Equal(t, 0.25, res.Config.Threshold)
	assert.Equal(t, "dice", res.Config.Metric.String())
	assert.Equal(t, int64(2<<20), res.Config.MemoryLimitBytes)
	assert.False(t, res.Config.Reordering)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("BUTINA_A", "x")

	got := string(expandEnvVars([]byte("a=${BUTINA_A} b=${BUTINA_UNSET:-y} c=${BUTINA_UNSET}")))
	assert.Equal(t, "a=x b=y c=", got)
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer

	logger, err := LoggingConfig{Level: "info", Format: "text"}.SetupLoggerWithWriters(&stderr, &file)
	require.NoError(t, err)

	logger.Info("run completed", "points", 3)
	logger.Debug("hidden")

	assert.Contains(t, stderr.String(), "msg=\"run completed\"")
	assert.Contains(t, file.String(), `"msg":"run completed"`)
	assert.NotContains(t, file.String(), "hidden")
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "butina.log")

	logger, cleanup, err := LoggingConfig{Level: "info", Format: "json", File: path}.SetupLogger()
	require.NoError(t, err)
	logger.Info("clustering completed")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "clustering completed"))

	_, _, err = LoggingConfig{Level: "loud"}.SetupLogger()
	assert.Error(t, err)
}
