// File: service/hot_post.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/constant"
	"github.com/Xushengqwer/forum_service/models/entities"
	"github.com/Xushengqwer/forum_service/models/vo"
	"github.com/Xushengqwer/forum_service/query"
	"github.com/Xushengqwer/forum_service/repo/mysql"
	"github.com/Xushengqwer/forum_service/repo/redis"
)

// HotPostService 热帖榜的查询与重建。
type HotPostService interface {
	// ListHotPosts 按热度降序返回前 limit 个帖子。limit <= 0 时使用配置的默认值。
	// 优先读 Redis 热榜；热榜不可用或为空时从数据库现算。
	ListHotPosts(ctx context.Context, limit int) (*vo.HotPostsVO, error)

	// RebuildHotRank 从数据库快照全量重建 Redis 热榜，返回写入的帖子数。
	RebuildHotRank(ctx context.Context) (int, error)
}

type hotPostService struct {
	db       *gorm.DB
	postRepo mysql.PostRepository
	hotRank  redis.HotRankRepository // 可能为 nil（未配置 Redis）
	cfg      config.HotRankConfig
	logger   *core.ZapLogger
}

// NewHotPostService 创建 HotPostService。hotRank 为 nil 时始终走数据库兜底。
func NewHotPostService(db *gorm.DB, postRepo mysql.PostRepository, hotRank redis.HotRankRepository, cfg config.HotRankConfig, logger *core.ZapLogger) HotPostService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.Size <= 0 {
		cfg.Size = 200
	}
	return &hotPostService{db: db, postRepo: postRepo, hotRank: hotRank, cfg: cfg, logger: logger}
}

func (s *hotPostService) ListHotPosts(ctx context.Context, limit int) (*vo.HotPostsVO, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	if s.hotRank != nil {
		posts, err := s.fromRank(ctx, limit)
		if err == nil {
			return &vo.HotPostsVO{Posts: vo.NewPostResponses(posts), Source: constant.HotSourceRedis}, nil
		}
		if redis.IsCacheMiss(err) {
			s.logger.Info("热榜为空，回源数据库计算", zap.Int("limit", limit))
		} else {
			s.logger.Warn("读取热榜失败，回源数据库计算", zap.Int("limit", limit), zap.Error(err))
		}
	}

	all, err := s.postRepo.ListPosts(ctx, s.db, 0)
	if err != nil {
		return nil, fmt.Errorf("获取热门帖子失败: %w", err)
	}
	ranked := query.RankByHotness(all, limit)
	return &vo.HotPostsVO{Posts: vo.NewPostResponses(ranked), Source: constant.HotSourceDatabase}, nil
}

// fromRank 按热榜顺序取帖子详情，榜中已不存在的帖子跳过。
func (s *hotPostService) fromRank(ctx context.Context, limit int) ([]*entities.Post, error) {
	ids, err := s.hotRank.Top(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	found, err := s.postRepo.GetPostsByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entities.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]*entities.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (s *hotPostService) RebuildHotRank(ctx context.Context) (int, error) {
	if s.hotRank == nil {
		s.logger.Debug("未配置 Redis，跳过热榜重建")
		return 0, nil
	}
	startTime := time.Now()
	posts, err := s.postRepo.ListPosts(ctx, s.db, 0)
	if err != nil {
		return 0, fmt.Errorf("读取帖子快照失败: %w", err)
	}
	ranked := query.RankByHotness(posts, s.cfg.Size)
	entries := make([]redis.HotEntry, 0, len(ranked))
	for _, p := range ranked {
		entries = append(entries, redis.HotEntry{PostID: p.ID, Score: query.HotScore(p)})
	}
	if err := s.hotRank.Rebuild(ctx, entries); err != nil {
		return 0, fmt.Errorf("写入热榜失败: %w", err)
	}
	s.logger.Info("热榜重建完成", zap.Int("size", len(entries)), zap.Duration("duration", time.Since(startTime)))
	return len(entries), nil
}
