package dependencies

import (
	"context"
	"path/filepath"
	"testing"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appConfig "github.com/Xushengqwer/forum_service/config"
)

func TestInitDatabaseSQLiteMigratesTables(t *testing.T) {
	cfg := &appConfig.ForumConfig{
		GormLogConfig: commonConfig.GormLogConfig{Level: "silent"},
		DatabaseConfig: appConfig.DatabaseConfig{
			Driver:     "SQLite",
			SQLitePath: filepath.Join(t.TempDir(), "forum.db"),
		},
	}

	db, err := InitDatabase(cfg, testLogger(t))
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("posts"))
	assert.True(t, db.Migrator().HasTable("replies"))
}

func TestInitDatabaseRejectsUnknownDriver(t *testing.T) {
	cfg := &appConfig.ForumConfig{DatabaseConfig: appConfig.DatabaseConfig{Driver: "oracle"}}
	_, err := InitDatabase(cfg, testLogger(t))
	assert.ErrorContains(t, err, "oracle")
}

func TestInitDatabaseRequiresWriteDSN(t *testing.T) {
	cfg := &appConfig.ForumConfig{DatabaseConfig: appConfig.DatabaseConfig{Driver: "mysql"}}
	_, err := InitDatabase(cfg, testLogger(t))
	assert.ErrorContains(t, err, "DSN")
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := InitRedis(&appConfig.RedisConfig{Addr: mr.Addr(), PoolSize: 2}, testLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())

	_, err = InitRedis(&appConfig.RedisConfig{}, testLogger(t))
	assert.Error(t, err)
}

func testLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{Level: "error", Encoding: "console"})
	require.NoError(t, err)
	return logger
}
