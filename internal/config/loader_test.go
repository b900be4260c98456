package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
log:
  level: debug
  format: json
substituents:
  path: /data/substituents.txt
  placeholder: "*"
  strict: false
derivatives:
  format: mol
  obabel_path: /usr/local/bin/obabel
  max_count: 500
  concurrency: 2
docking:
  exhaustiveness: 16
  box_size: 24.5
server:
  port: 9090
  read_timeout: 5s
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
  topic: derivatives
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/data/substituents.txt", cfg.Substituents.Path)
	assert.Equal(t, "*", cfg.Substituents.Placeholder)
	assert.False(t, cfg.Substituents.Strict)
	assert.Equal(t, "mol", cfg.Derivatives.Format)
	assert.EqualValues(t, 500, cfg.Derivatives.MaxCount)
	assert.Equal(t, 16, cfg.Docking.Exhaustiveness)
	assert.Equal(t, DefaultNumModes, cfg.Docking.NumModes)
	assert.Equal(t, 24.5, cfg.Docking.BoxSize)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "log: ["))
	assert.Error(t, err)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "derivatives:\n  format: pdb\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_StrictDefaultsToTrue(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, "log:\n  level: warn\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Substituents.Strict)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DOCKPREP_SERVER_PORT", "9999")
	t.Setenv("DOCKPREP_DOCKING_NUM_MODES", "20")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Docking.NumModes)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DOCKPREP_SUBSTITUENTS_PATH", "/env/subs.txt")
	t.Setenv("DOCKPREP_DERIVATIVES_SINK", "minio")
	t.Setenv("DOCKPREP_MINIO_BUCKET", "ligands")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/env/subs.txt", cfg.Substituents.Path)
	assert.Equal(t, "minio", cfg.Derivatives.Sink)
	assert.Equal(t, "ligands", cfg.MinIO.Bucket)
	assert.Equal(t, DefaultPlaceholder, cfg.Substituents.Placeholder)
}

func TestLoadOrDefault_EmptyPathUsesEnv(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSubstituentsPath, cfg.Substituents.Path)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yaml")) })
}

func TestLoad_SampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "dockprep.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "configs/substituents.txt", cfg.Substituents.Path)
	assert.Equal(t, DefaultKafkaRequestTopic, cfg.Kafka.RequestTopic)
	assert.Equal(t, 8081, cfg.Worker.HealthPort)
	assert.Equal(t, 5*time.Minute, cfg.Worker.HandlerTimeout)
	assert.Equal(t, time.Hour, cfg.Redis.DefaultTTL)
	assert.Zero(t, cfg.Server.RateLimit)
}

//Personal.AI order the ending
