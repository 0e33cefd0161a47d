package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/Xushengqwer/forum_service/models/entities"
	"github.com/Xushengqwer/forum_service/models/enums"
	"github.com/Xushengqwer/forum_service/myErrors"
)

// PostRepository 定义了帖子数据的持久化操作接口。
// 需要参与事务的方法显式接收 db 参数，服务层在事务内传入 tx，事务外传入普通连接。
type PostRepository interface {
	// CreatePost 持久化一个新的帖子记录。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// GetPostByID 根据 ID 获取帖子。
	// - 未找到时返回包装了 myErrors.ErrNotFound 的错误。
	GetPostByID(ctx context.Context, db *gorm.DB, id string) (*entities.Post, error)

	// ListPosts 返回帖子快照，按 pinned DESC, created_at DESC, id ASC 排序。
	// - limit <= 0 表示不限制。筛选和最终排序由 query 包负责。
	ListPosts(ctx context.Context, db *gorm.DB, limit int) ([]*entities.Post, error)

	// GetPostsByIDs 根据 ID 列表批量获取帖子，返回顺序不保证，缺失的 ID 直接跳过。
	GetPostsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]*entities.Post, error)

	// IncrementCounter 原子增加点赞数或浏览量，返回增加后的帖子。
	IncrementCounter(ctx context.Context, db *gorm.DB, id string, field enums.CounterField, delta int64) (*entities.Post, error)

	// IncrementReplyCount 原子增加回复数，只允许在创建回复的事务内调用。
	IncrementReplyCount(ctx context.Context, db *gorm.DB, id string, delta int64) error
}

// postRepository 是 PostRepository 接口的 GORM 实现。
type postRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

// conn 调用方未传入句柄时使用仓库自带的连接。
func (r *postRepository) conn(db *gorm.DB) *gorm.DB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	if err := r.conn(db).WithContext(ctx).Create(post).Error; err != nil {
		r.logger.Error("创建帖子数据库操作失败", zap.String("postID", post.ID), zap.Error(err))
		return myErrors.NewStoreError("create post", err)
	}
	return nil
}

func (r *postRepository) GetPostByID(ctx context.Context, db *gorm.DB, id string) (*entities.Post, error) {
	var post entities.Post
	err := r.conn(db).WithContext(ctx).Where("id = ?", id).Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debug("根据 ID 获取帖子未找到", zap.String("postID", id))
			return nil, fmt.Errorf("帖子 %s: %w", id, myErrors.ErrNotFound)
		}
		r.logger.Error("根据 ID 获取帖子数据库查询失败", zap.String("postID", id), zap.Error(err))
		return nil, myErrors.NewStoreError("get post", err)
	}
	if err := post.Validate(); err != nil {
		r.logger.Error("帖子记录校验失败", zap.String("postID", id), zap.Error(err))
		return nil, myErrors.NewStoreError("decode post", err)
	}
	return &post, nil
}

func (r *postRepository) ListPosts(ctx context.Context, db *gorm.DB, limit int) ([]*entities.Post, error) {
	var posts []*entities.Post
	query := r.conn(db).WithContext(ctx).
		Model(&entities.Post{}).
		Order("pinned DESC").
		Order("created_at DESC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		r.logger.Error("获取帖子列表数据库查询失败", zap.Int("limit", limit), zap.Error(err))
		return nil, myErrors.NewStoreError("list posts", err)
	}
	return r.validated(posts)
}

func (r *postRepository) GetPostsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]*entities.Post, error) {
	var posts []*entities.Post
	if len(ids) == 0 {
		return posts, nil
	}
	if err := r.conn(db).WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		r.logger.Error("批量获取帖子失败", zap.Int("id数量", len(ids)), zap.Error(err))
		return nil, myErrors.NewStoreError("get posts by ids", err)
	}
	return r.validated(posts)
}

// IncrementCounter 自增后从主库重新读取，返回的计数至少包含本次增量。
func (r *postRepository) IncrementCounter(ctx context.Context, db *gorm.DB, id string, field enums.CounterField, delta int64) (*entities.Post, error) {
	if field == enums.CounterReplies {
		return nil, myErrors.NewValidationError("field", "回复数只能通过创建回复增加")
	}
	conn := r.conn(db)
	if err := incrementColumn(ctx, conn, &entities.Post{}, "posts", id, field, delta); err != nil {
		if !errors.Is(err, myErrors.ErrNotFound) {
			r.logger.Error("帖子计数自增失败", zap.String("postID", id), zap.String("field", string(field)), zap.Error(err))
		}
		return nil, err
	}
	return r.GetPostByID(ctx, conn.Clauses(dbresolver.Write), id)
}

func (r *postRepository) IncrementReplyCount(ctx context.Context, db *gorm.DB, id string, delta int64) error {
	return incrementColumn(ctx, r.conn(db), &entities.Post{}, "posts", id, enums.CounterReplies, delta)
}

func (r *postRepository) validated(posts []*entities.Post) ([]*entities.Post, error) {
	for _, p := range posts {
		if err := p.Validate(); err != nil {
			r.logger.Error("帖子记录校验失败", zap.String("postID", p.ID), zap.Error(err))
			return nil, myErrors.NewStoreError("decode post", err)
		}
	}
	return posts, nil
}
