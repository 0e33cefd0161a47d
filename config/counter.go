package config

import "time"

// CounterConfig 计数器（点赞 / 浏览 / 回复数）相关配置
type CounterConfig struct {
	// WriteTimeout 点赞、浏览写入的独立超时。调用方取消请求不会中断已经发出的写入，
	// 写入只受这个超时约束。
	WriteTimeout time.Duration `mapstructure:"writeTimeout" json:"writeTimeout" yaml:"writeTimeout"`

	// ViewDedup 浏览去重策略，默认关闭（每次浏览都计数）。
	ViewDedup ViewDedupConfig `mapstructure:"viewDedup" json:"viewDedup" yaml:"viewDedup"`
}

// ViewDedupConfig 同一浏览者在窗口期内对同一帖子的重复浏览只计一次。
// 依赖 Redis；Redis 不可用时退化为照常计数。
type ViewDedupConfig struct {
	Enabled bool          `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Window  time.Duration `mapstructure:"window" json:"window" yaml:"window"`
}

// HotRankConfig 热帖榜配置
type HotRankConfig struct {
	// CronSpec 全量重建热榜 ZSet 的调度表达式，例如 "@every 5m"
	CronSpec string `mapstructure:"cronSpec" json:"cronSpec" yaml:"cronSpec"`
	// Size 重建时写入 ZSet 的最大帖子数
	Size int `mapstructure:"size" json:"size" yaml:"size"`
	// DefaultLimit 接口未指定 limit 时返回的条数
	DefaultLimit int `mapstructure:"defaultLimit" json:"defaultLimit" yaml:"defaultLimit"`
}

// ReconcileConfig 回复数对账任务配置
type ReconcileConfig struct {
	CronSpec string `mapstructure:"cronSpec" json:"cronSpec" yaml:"cronSpec"`

	// BatchSize 每个批次处理的帖子数量，每批对应一次 GROUP BY 统计。
	BatchSize int `mapstructure:"batchSize" json:"batchSize" yaml:"batchSize"`

	// ConcurrencyLevel 并发处理批次的 worker 数量，决定同时向数据库发起的查询数。
	ConcurrencyLevel int `mapstructure:"concurrencyLevel" json:"concurrencyLevel" yaml:"concurrencyLevel"`
}
