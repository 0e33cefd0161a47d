package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewDedupWindow(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewViewDedupRepository(client, testLogger(t), time.Hour)
	ctx := context.Background()

	first, err := repo.MarkViewed(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := repo.MarkViewed(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.False(t, again)

	otherViewer, err := repo.MarkViewed(ctx, "p1", "u2")
	require.NoError(t, err)
	assert.True(t, otherViewer)

	mr.FastForward(time.Hour + time.Second)
	afterWindow, err := repo.MarkViewed(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.True(t, afterWindow)
}

func TestViewDedupUnmarkAllowsRetry(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewViewDedupRepository(client, testLogger(t), time.Hour)
	ctx := context.Background()

	first, err := repo.MarkViewed(ctx, "p1", "u1")
	require.NoError(t, err)
	require.True(t, first)

	require.NoError(t, repo.UnmarkViewed(ctx, "p1", "u1"))
	assert.False(t, mr.Exists(viewSeenKey("p1", "u1")))

	retry, err := repo.MarkViewed(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.True(t, retry)

	// 标记不存在时撤销也不报错
	require.NoError(t, repo.UnmarkViewed(ctx, "p2", "u1"))
}
