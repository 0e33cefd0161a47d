package mysql

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/forum_service/dependencies"
	"github.com/Xushengqwer/forum_service/models/entities"
	"github.com/Xushengqwer/forum_service/models/enums"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dependencies.InitSQLite(filepath.Join(t.TempDir(), "forum.db"), commonConfig.GormLogConfig{Level: "silent"}, testLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newPost(title string, createdAt time.Time) *entities.Post {
	return &entities.Post{
		ID:        uuid.Must(uuid.NewV7()).String(),
		AuthorID:  "author-1",
		Title:     title,
		Body:      title + " body",
		Category:  enums.CategoryStrategy,
		Tags:      []string{"ai"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func mustCreatePost(t *testing.T, repo PostRepository, db *gorm.DB, post *entities.Post) *entities.Post {
	t.Helper()
	require.NoError(t, repo.CreatePost(context.Background(), db, post))
	return post
}

func testLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{Level: "error", Encoding: "console"})
	require.NoError(t, err)
	return logger
}
