package redis

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/forum_service/constant"
	"github.com/Xushengqwer/forum_service/myErrors"
)

// ViewDedupRepository 浏览去重窗口。
type ViewDedupRepository interface {
	// MarkViewed 记录 viewer 浏览了 post。窗口期内首次浏览返回 true，重复浏览返回 false。
	MarkViewed(ctx context.Context, postID, viewerID string) (bool, error)

	// UnmarkViewed 撤销 MarkViewed 写入的标记，浏览计数没有写入成功时调用，
	// 这样同一浏览者重试时仍会被计数。
	UnmarkViewed(ctx context.Context, postID, viewerID string) error
}

type viewDedupRepository struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
	window      time.Duration
}

// NewViewDedupRepository 创建 ViewDedupRepository。window <= 0 时使用 12 小时。
func NewViewDedupRepository(redisClient *redis.Client, logger *core.ZapLogger, window time.Duration) ViewDedupRepository {
	if window <= 0 {
		window = 12 * time.Hour
	}
	return &viewDedupRepository{redisClient: redisClient, logger: logger, window: window}
}

func viewSeenKey(postID, viewerID string) string {
	return constant.ViewSeenPrefix + postID + ":" + viewerID
}

// MarkViewed 通过 SET NX EX 实现：Key 不存在时写入并返回 true，过期即窗口结束。
func (r *viewDedupRepository) MarkViewed(ctx context.Context, postID, viewerID string) (bool, error) {
	first, err := r.redisClient.SetNX(ctx, viewSeenKey(postID, viewerID), 1, r.window).Result()
	if err != nil {
		r.logger.Warn("写入浏览去重标记失败", zap.String("postID", postID), zap.String("viewerID", viewerID), zap.Error(err))
		return false, myErrors.NewStoreError("mark viewed", err)
	}
	if !first {
		r.logger.Debug("窗口期内重复浏览，跳过计数", zap.String("postID", postID), zap.String("viewerID", viewerID))
	}
	return first, nil
}

func (r *viewDedupRepository) UnmarkViewed(ctx context.Context, postID, viewerID string) error {
	if err := r.redisClient.Del(ctx, viewSeenKey(postID, viewerID)).Err(); err != nil {
		r.logger.Warn("撤销浏览去重标记失败", zap.String("postID", postID), zap.String("viewerID", viewerID), zap.Error(err))
		return myErrors.NewStoreError("unmark viewed", err)
	}
	return nil
}
