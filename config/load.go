package config

import (
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
)

// LoadConfig 通过 go-common 的 core.LoadConfig 读取 YAML 与环境变量，
// 再为文件中缺失的项补上默认值。
// 环境变量按键路径覆盖，例如 SERVERCONFIG_PORT 覆盖 serverConfig.port。
func LoadConfig(path string, cfg *ForumConfig) error {
	if err := core.LoadConfig(path, cfg); err != nil {
		return fmt.Errorf("加载配置文件 %s 失败: %w", path, err)
	}
	cfg.ApplyDefaults()
	return nil
}

// ApplyDefaults 只填充零值字段，已配置的值保持不变。
func (c *ForumConfig) ApplyDefaults() {
	setString(&c.ZapConfig.Level, "info")
	setString(&c.ZapConfig.Encoding, "json")

	setString(&c.GormLogConfig.Level, "warn")
	setInt(&c.GormLogConfig.SlowThresholdMs, 200)

	setString(&c.ServerConfig.Port, "8082")
	if c.ServerConfig.RequestTimeout <= 0 {
		// 单位为秒，与 yaml 中 requestTimeout: 10 的写法一致
		c.ServerConfig.RequestTimeout = 10
	}

	setString(&c.TracerConfig.ExporterType, "stdout")
	setString(&c.TracerConfig.SamplerType, "always_on")

	setString(&c.DatabaseConfig.Driver, "mysql")
	setString(&c.DatabaseConfig.SQLitePath, "forum.db")
	setInt(&c.DatabaseConfig.SharedMaxIdleConns, 10)
	setInt(&c.DatabaseConfig.SharedMaxOpenConns, 50)
	setInt(&c.DatabaseConfig.SharedConnMaxLifetime, 3600)

	setInt(&c.RedisConfig.PoolSize, 20)
	setInt(&c.RedisConfig.DialTimeout, 5)

	setString(&c.KafkaConfig.ConsumerGroupID, "forum_service_group")
	if c.KafkaConfig.MaxRetries == 0 {
		c.KafkaConfig.MaxRetries = 3
	}

	if c.CounterConfig.WriteTimeout <= 0 {
		c.CounterConfig.WriteTimeout = 5 * time.Second
	}
	if c.CounterConfig.ViewDedup.Window <= 0 {
		c.CounterConfig.ViewDedup.Window = 12 * time.Hour
	}

	setString(&c.HotRankConfig.CronSpec, "@every 5m")
	setInt(&c.HotRankConfig.Size, 200)
	setInt(&c.HotRankConfig.DefaultLimit, 10)

	setString(&c.ReconcileConfig.CronSpec, "@every 30m")
	setInt(&c.ReconcileConfig.BatchSize, 500)
	setInt(&c.ReconcileConfig.ConcurrencyLevel, 4)
}

func setString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

func setInt(field *int, def int) {
	if *field <= 0 {
		*field = def
	}
}
