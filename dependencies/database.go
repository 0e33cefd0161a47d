package dependencies

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	appConfig "github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/models/entities"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// InitDatabase 按 databaseConfig.driver 初始化数据库连接并完成自动迁移。
func InitDatabase(cfg *appConfig.ForumConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.DatabaseConfig.Driver)
	switch driver {
	case DriverSQLite:
		return InitSQLite(cfg.DatabaseConfig.SQLitePath, cfg.GormLogConfig, logger)
	case DriverMySQL, DriverPostgres, "":
		if driver == "" {
			driver = DriverMySQL
		}
		return initServerDatabase(driver, cfg, logger)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", cfg.DatabaseConfig.Driver)
	}
}

func dialectorFor(driver, dsn string) gorm.Dialector {
	if driver == DriverPostgres {
		return postgres.Open(dsn)
	}
	return mysql.Open(dsn)
}

// initServerDatabase 初始化 MySQL / PostgreSQL 连接，并配置读写分离 (如果配置了从库)
func initServerDatabase(driver string, cfg *appConfig.ForumConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	dbCfg := cfg.DatabaseConfig

	// --- 主库连接 ---
	if dbCfg.Write.DSN == "" {
		return nil, fmt.Errorf("主数据库 DSN (databaseConfig.write.dsn) 未配置")
	}
	gormConfig := &gorm.Config{
		Logger: core.NewGormLogger(logger, cfg.GormLogConfig),
	}

	var db *gorm.DB
	var err error
	maxRetries := 5
	retryInterval := 2 * time.Second

	// 重试连接主库
	logger.Info("开始连接主数据库...", zap.String("driver", driver))
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(dialectorFor(driver, dbCfg.Write.DSN), gormConfig)
		if err == nil {
			var sqlDB *sql.DB
			sqlDB, err = db.DB()
			if err == nil {
				if err = sqlDB.Ping(); err == nil {
					break
				}
			}
		}
		logger.Warn("无法连接到主数据库，尝试重试", zap.Int("retry", i+1), zap.Int("maxRetries", maxRetries), zap.Error(err))
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		logger.Error("无法连接到主数据库", zap.Error(err))
		return nil, fmt.Errorf("无法连接到主数据库: %w", err)
	}
	logger.Info("成功连接到主数据库")

	// --- 配置读写分离 (dbresolver) ---
	readReplicas := make([]gorm.Dialector, 0, len(dbCfg.Read))
	for i, replicaCfg := range dbCfg.Read {
		if replicaCfg.DSN == "" {
			logger.Warn("发现空的从库 DSN 配置，已跳过", zap.Int("index", i))
			continue
		}
		readReplicas = append(readReplicas, dialectorFor(driver, replicaCfg.DSN))
	}

	if len(readReplicas) > 0 {
		resolverConfig := dbresolver.Config{
			Sources:  []gorm.Dialector{dialectorFor(driver, dbCfg.Write.DSN)},
			Replicas: readReplicas,
			Policy:   dbresolver.StrictRoundRobinPolicy(),
		}
		if err = db.Use(dbresolver.Register(resolverConfig)); err != nil {
			logger.Error("配置 GORM 读写分离插件失败", zap.Error(err))
			return nil, fmt.Errorf("配置 GORM 读写分离失败: %w", err)
		}
		logger.Info("成功配置 GORM 读写分离插件", zap.Int("从库数量", len(readReplicas)), zap.Bool("staleReads", dbCfg.StaleReads))
	} else {
		logger.Info("未配置有效的从数据库，不启用读写分离")
	}

	// --- 配置连接池 ---
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取数据库对象: %w", err)
	}

	maxIdle := dbCfg.SharedMaxIdleConns
	maxOpen := dbCfg.SharedMaxOpenConns
	maxLife := dbCfg.SharedConnMaxLifetime
	if dbCfg.Write.MaxIdleConns != nil {
		maxIdle = *dbCfg.Write.MaxIdleConns
	}
	if dbCfg.Write.MaxOpenConns != nil {
		maxOpen = *dbCfg.Write.MaxOpenConns
	}
	if dbCfg.Write.ConnMaxLifetime != nil {
		maxLife = *dbCfg.Write.ConnMaxLifetime
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(maxLife) * time.Second)

	logger.Info("配置数据库连接池",
		zap.Int("最大空闲连接数", maxIdle),
		zap.Int("最大打开连接数", maxOpen),
		zap.Int("连接最大生命周期(秒)", maxLife),
	)

	if err := migrate(db, logger); err != nil {
		return nil, err
	}
	logger.Info("成功初始化数据库连接 (包括读写分离和自动迁移)")
	return db, nil
}

// migrate 自动迁移论坛表。AutoMigrate 默认发送到主库 (Source)。
func migrate(db *gorm.DB, logger *core.ZapLogger) error {
	logger.Info("开始执行数据库自动迁移...")
	if err := db.AutoMigrate(&entities.Post{}, &entities.Reply{}); err != nil {
		logger.Error("数据库自动迁移失败", zap.Error(err))
		return fmt.Errorf("数据库自动迁移失败: %w", err)
	}
	logger.Info("数据库自动迁移完成")
	return nil
}
