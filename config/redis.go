package config

// RedisConfig Redis 连接配置。Addr 为空表示不启用 Redis（热榜走数据库兜底，浏览去重关闭）。
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr" yaml:"addr"`
	Password string `mapstructure:"password" json:"-" yaml:"password"`
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`
	PoolSize int    `mapstructure:"poolSize" json:"poolSize" yaml:"poolSize"`
	// DialTimeout 秒
	DialTimeout int `mapstructure:"dialTimeout" json:"dialTimeout" yaml:"dialTimeout"`
}
