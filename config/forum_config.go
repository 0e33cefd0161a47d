package config

import "github.com/Xushengqwer/go-common/config"

// ForumConfig 服务的全部配置，对应 config/config.*.yaml 的顶层结构。
// 日志、GORM 日志、HTTP 服务与链路追踪沿用 go-common 的通用配置。
type ForumConfig struct {
	ZapConfig       config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig   config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig    config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig    config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	DatabaseConfig  DatabaseConfig       `mapstructure:"databaseConfig" json:"databaseConfig" yaml:"databaseConfig"`
	RedisConfig     RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	KafkaConfig     KafkaConfig          `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	CounterConfig   CounterConfig        `mapstructure:"counterConfig" json:"counterConfig" yaml:"counterConfig"`
	HotRankConfig   HotRankConfig        `mapstructure:"hotRankConfig" json:"hotRankConfig" yaml:"hotRankConfig"`
	ReconcileConfig ReconcileConfig      `mapstructure:"reconcileConfig" json:"reconcileConfig" yaml:"reconcileConfig"`
}
