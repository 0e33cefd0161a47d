package dependencies

import (
	"fmt"

	"github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitSQLite 打开（或创建）本地 SQLite 数据库并迁移表结构。
// SQLite 只允许单写，这里把连接池限制为 1，所有请求排队使用同一连接；
// 事务内的仓库调用必须使用事务句柄 tx，否则会互相等待。
func InitSQLite(path string, gormLogCfg config.GormLogConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLite 文件路径 (databaseConfig.sqlitePath) 未配置")
	}
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: core.NewGormLogger(logger, gormLogCfg),
	})
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 数据库 %s 失败: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取数据库对象: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migrate(db, logger); err != nil {
		return nil, err
	}
	logger.Info("SQLite 数据库已就绪", zap.String("path", path))
	return db, nil
}
