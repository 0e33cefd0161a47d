package config

// SourceConfig 代表一个数据库源（主库或从库）的配置
type SourceConfig struct {
	DSN string `mapstructure:"dsn" json:"-" yaml:"dsn"` // 直接使用 DSN 字符串
	// 保留独立的连接池设置，允许覆盖共享设置 (可选)
	MaxIdleConns    *int `mapstructure:"max_idle_conns,omitempty" json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	MaxOpenConns    *int `mapstructure:"max_open_conns,omitempty" json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	ConnMaxLifetime *int `mapstructure:"conn_max_lifetime,omitempty" json:"conn_max_lifetime,omitempty" yaml:"conn_max_lifetime,omitempty"` // 秒
}

// DatabaseConfig 数据库配置
// - Driver: mysql（默认）/ postgres / sqlite。sqlite 用于本地开发，单连接，不支持读写分离。
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver" json:"driver" yaml:"driver"`
	SQLitePath string `mapstructure:"sqlitePath" json:"sqlitePath" yaml:"sqlitePath"`

	Write SourceConfig   `mapstructure:"write" json:"write" yaml:"write"` // 主库配置
	Read  []SourceConfig `mapstructure:"read" json:"read" yaml:"read"`    // 从库配置列表 (可以为空，表示不启用读写分离)

	// StaleReads 为 true 时，论坛读请求允许走从库，调用方可能短暂读不到自己刚写入的数据。
	// 默认 false，即读请求强制走主库。只有配置了从库时才有区别。
	StaleReads bool `mapstructure:"staleReads" json:"staleReads" yaml:"staleReads"`

	// 共享/默认连接池设置 (如果 Write 中未指定，则使用这些值)
	SharedMaxIdleConns    int `mapstructure:"max_idle_conns" json:"max_idle_conns" yaml:"max_idle_conns"`
	SharedMaxOpenConns    int `mapstructure:"max_open_conns" json:"max_open_conns" yaml:"max_open_conns"`
	SharedConnMaxLifetime int `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 秒
}
