package redis

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/forum_service/constant"
	"github.com/Xushengqwer/forum_service/myErrors"
)

// HotEntry 热榜中的一项。
type HotEntry struct {
	PostID string
	Score  float64
}

// HotRankRepository 热帖榜 ZSet 的读写接口。
// ZSet 只是数据库计数的派生数据：增量更新失败不影响计数本身，定时重建会修正偏差。
type HotRankRepository interface {
	// Bump 给帖子增加热度，返回增加后的分数。帖子不在榜中时会被加入。
	Bump(ctx context.Context, postID string, delta float64) (float64, error)

	// Top 返回热度最高的前 limit 个帖子 ID，按分数降序。榜单不存在时返回 myErrors.ErrCacheMiss。
	Top(ctx context.Context, limit int64) ([]string, error)

	// Rebuild 用给定的快照整体替换热榜：先写临时 Key，再 RENAME 覆盖，读者不会看到半成品。
	Rebuild(ctx context.Context, entries []HotEntry) error
}

type hotRankRepository struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewHotRankRepository 创建 HotRankRepository 实例。
func NewHotRankRepository(redisClient *redis.Client, logger *core.ZapLogger) HotRankRepository {
	return &hotRankRepository{redisClient: redisClient, logger: logger}
}

// Bump 使用 ZINCRBY；分数为 0 的增量也会把成员写入榜单。
func (r *hotRankRepository) Bump(ctx context.Context, postID string, delta float64) (float64, error) {
	score, err := r.redisClient.ZIncrBy(ctx, constant.HotRankKey, delta, postID).Result()
	if err != nil {
		r.logger.Error("ZINCRBY 增加帖子热度失败", zap.String("postID", postID), zap.Float64("delta", delta), zap.Error(err))
		return 0, myErrors.NewStoreError("bump hot rank", err)
	}
	return score, nil
}

func (r *hotRankRepository) Top(ctx context.Context, limit int64) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	ids, err := r.redisClient.ZRevRange(ctx, constant.HotRankKey, 0, limit-1).Result()
	if err != nil {
		r.logger.Error("从 Redis ZRevRange 获取热帖 ID 失败", zap.Int64("limit", limit), zap.Error(err))
		return nil, myErrors.NewStoreError("top hot rank", err)
	}
	if len(ids) == 0 {
		return nil, myErrors.ErrCacheMiss
	}
	return ids, nil
}

func (r *hotRankRepository) Rebuild(ctx context.Context, entries []HotEntry) error {
	startTime := time.Now()
	if len(entries) == 0 {
		if err := r.redisClient.Del(ctx, constant.HotRankKey).Err(); err != nil {
			return myErrors.NewStoreError("clear hot rank", err)
		}
		r.logger.Info("热榜快照为空，已清空热榜")
		return nil
	}

	members := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		members = append(members, redis.Z{Score: e.Score, Member: e.PostID})
	}

	tempKey := constant.HotRankTmpKeyPrefix + uuid.NewString()
	pipe := r.redisClient.Pipeline()
	pipe.Del(ctx, tempKey)
	pipe.ZAdd(ctx, tempKey, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("执行 Redis Pipeline (写入临时热榜) 失败，现有热榜将保留。", zap.String("tempKey", tempKey), zap.Error(err))
		r.redisClient.Del(ctx, tempKey)
		return myErrors.NewStoreError("write temp hot rank", err)
	}

	if err := r.redisClient.Rename(ctx, tempKey, constant.HotRankKey).Err(); err != nil {
		r.logger.Error("执行 Redis RENAME (临时热榜到正式热榜) 失败", zap.String("tempKey", tempKey), zap.Error(err))
		r.redisClient.Del(ctx, tempKey)
		return myErrors.NewStoreError("swap hot rank", err)
	}

	r.logger.Info("热榜重建完成 (采用临时Key+RENAME策略)",
		zap.Int("size", len(entries)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

// IsCacheMiss 判断是否为榜单不存在。
func IsCacheMiss(err error) bool {
	return errors.Is(err, myErrors.ErrCacheMiss)
}
