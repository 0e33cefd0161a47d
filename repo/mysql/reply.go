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

// ReplyRepository 回复的持久化操作接口。
type ReplyRepository interface {
	// CreateReply 插入回复。父帖存在性校验与回复数自增由服务层在同一事务内完成。
	CreateReply(ctx context.Context, db *gorm.DB, reply *entities.Reply) error

	// ListRepliesByPostID 按 created_at ASC, id ASC 返回某帖子下的全部回复。
	ListRepliesByPostID(ctx context.Context, db *gorm.DB, postID string) ([]*entities.Reply, error)

	// GetReplyByID 根据 ID 获取回复。
	GetReplyByID(ctx context.Context, db *gorm.DB, id string) (*entities.Reply, error)

	// IncrementReplyLikes 原子增加回复点赞数，返回增加后的回复。
	IncrementReplyLikes(ctx context.Context, db *gorm.DB, id string, delta int64) (*entities.Reply, error)
}

type replyRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewReplyRepository 是 replyRepository 的构造函数。
func NewReplyRepository(db *gorm.DB, logger *core.ZapLogger) ReplyRepository {
	return &replyRepository{db: db, logger: logger}
}

func (r *replyRepository) conn(db *gorm.DB) *gorm.DB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *replyRepository) CreateReply(ctx context.Context, db *gorm.DB, reply *entities.Reply) error {
	if err := r.conn(db).WithContext(ctx).Create(reply).Error; err != nil {
		r.logger.Error("创建回复数据库操作失败", zap.String("postID", reply.PostID), zap.Error(err))
		return myErrors.NewStoreError("create reply", err)
	}
	return nil
}

func (r *replyRepository) ListRepliesByPostID(ctx context.Context, db *gorm.DB, postID string) ([]*entities.Reply, error) {
	var replies []*entities.Reply
	err := r.conn(db).WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&replies).Error
	if err != nil {
		r.logger.Error("获取回复列表失败", zap.String("postID", postID), zap.Error(err))
		return nil, myErrors.NewStoreError("list replies", err)
	}
	for _, reply := range replies {
		if err := reply.Validate(); err != nil {
			r.logger.Error("回复记录校验失败", zap.String("replyID", reply.ID), zap.Error(err))
			return nil, myErrors.NewStoreError("decode reply", err)
		}
	}
	return replies, nil
}

func (r *replyRepository) GetReplyByID(ctx context.Context, db *gorm.DB, id string) (*entities.Reply, error) {
	var reply entities.Reply
	if err := r.conn(db).WithContext(ctx).Where("id = ?", id).Take(&reply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("回复 %s: %w", id, myErrors.ErrNotFound)
		}
		r.logger.Error("根据 ID 获取回复失败", zap.String("replyID", id), zap.Error(err))
		return nil, myErrors.NewStoreError("get reply", err)
	}
	if err := reply.Validate(); err != nil {
		return nil, myErrors.NewStoreError("decode reply", err)
	}
	return &reply, nil
}

func (r *replyRepository) IncrementReplyLikes(ctx context.Context, db *gorm.DB, id string, delta int64) (*entities.Reply, error) {
	conn := r.conn(db)
	if err := incrementColumn(ctx, conn, &entities.Reply{}, "replies", id, enums.CounterLikes, delta); err != nil {
		return nil, err
	}
	return r.GetReplyByID(ctx, conn.Clauses(dbresolver.Write), id)
}
