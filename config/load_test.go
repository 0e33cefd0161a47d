package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
serverConfig:
  port: "9090"
databaseConfig:
  driver: sqlite
  sqlitePath: /tmp/forum-test.db
  read:
    - dsn: "replica-1"
kafkaConfig:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  topics:
    engagement: forum.engagement
counterConfig:
  writeTimeout: 2s
  viewDedup:
    enabled: true
    window: 30m
hotRankConfig:
  size: 100
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFileValuesAndDefaults(t *testing.T) {
	var cfg ForumConfig
	require.NoError(t, LoadConfig(writeConfig(t, sampleYAML), &cfg))

	assert.Equal(t, "9090", cfg.ServerConfig.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseConfig.Driver)
	require.Len(t, cfg.DatabaseConfig.Read, 1)
	assert.Equal(t, "replica-1", cfg.DatabaseConfig.Read[0].DSN)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, "forum.engagement", cfg.KafkaConfig.Topics.Engagement)
	assert.Equal(t, 2*time.Second, cfg.CounterConfig.WriteTimeout)
	assert.True(t, cfg.CounterConfig.ViewDedup.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.CounterConfig.ViewDedup.Window)
	assert.Equal(t, 100, cfg.HotRankConfig.Size)

	// 文件里没有的项走默认值
	assert.Equal(t, "info", cfg.ZapConfig.Level)
	assert.Equal(t, "warn", cfg.GormLogConfig.Level)
	assert.Equal(t, time.Duration(10), cfg.ServerConfig.RequestTimeout)
	assert.False(t, cfg.DatabaseConfig.StaleReads)
	assert.Equal(t, 500, cfg.ReconcileConfig.BatchSize)
	assert.Equal(t, "@every 5m", cfg.HotRankConfig.CronSpec)
	assert.Equal(t, uint64(3), cfg.KafkaConfig.MaxRetries)
	assert.Equal(t, "stdout", cfg.TracerConfig.ExporterType)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVERCONFIG_PORT", "7777")
	t.Setenv("HOTRANKCONFIG_SIZE", "50")

	var cfg ForumConfig
	require.NoError(t, LoadConfig(writeConfig(t, sampleYAML), &cfg))

	assert.Equal(t, "7777", cfg.ServerConfig.Port)
	assert.Equal(t, 50, cfg.HotRankConfig.Size)
}

func TestApplyDefaultsKeepsConfiguredValues(t *testing.T) {
	cfg := ForumConfig{}
	cfg.ReconcileConfig.BatchSize = 42
	cfg.ZapConfig.Level = "debug"
	cfg.ApplyDefaults()

	assert.Equal(t, 42, cfg.ReconcileConfig.BatchSize)
	assert.Equal(t, "debug", cfg.ZapConfig.Level)
	assert.Equal(t, 4, cfg.ReconcileConfig.ConcurrencyLevel)
	assert.Equal(t, "mysql", cfg.DatabaseConfig.Driver)
	assert.Equal(t, 12*time.Hour, cfg.CounterConfig.ViewDedup.Window)
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg ForumConfig
	err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), &cfg)
	assert.Error(t, err)
}
