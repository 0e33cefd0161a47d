package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/constant"
	"github.com/Xushengqwer/forum_service/metrics"
	"github.com/Xushengqwer/forum_service/models/dto"
	"github.com/Xushengqwer/forum_service/models/entities"
	"github.com/Xushengqwer/forum_service/models/enums"
	"github.com/Xushengqwer/forum_service/models/events"
	"github.com/Xushengqwer/forum_service/models/vo"
	"github.com/Xushengqwer/forum_service/myErrors"
	"github.com/Xushengqwer/forum_service/query"
	"github.com/Xushengqwer/forum_service/repo/mysql"
	"github.com/Xushengqwer/forum_service/repo/redis"
)

// ForumService 论坛核心业务接口，供 controller 与 Kafka 消费者调用。
//
// 错误约定（统一用 errors.Is 判断）:
//   - myErrors.ErrValidation: 参数不合法
//   - myErrors.ErrNotFound: 帖子或回复不存在
//   - myErrors.ErrStore: 存储临时故障，可退避重试
type ForumService interface {
	// CreatePost 发帖。标题、正文去空白后不能为空，分类必须合法。
	// 成功后异步发送 PostCreated 事件。
	CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*vo.PostResponse, error)

	// ListPosts 列表 / 搜索。结果按 置顶 > 创建时间降序 > ID 升序 排列。
	ListPosts(ctx context.Context, filter query.Filter) (*vo.PostListVO, error)

	// GetPost 帖子详情，不计浏览量（浏览走 View）。
	GetPost(ctx context.Context, postID string) (*vo.PostResponse, error)

	// AddReply 回复。回复写入和父帖回复数自增在同一事务内完成。
	AddReply(ctx context.Context, postID string, req *dto.CreateReplyRequest) (*vo.ReplyResponse, error)

	// ListReplies 某帖子下的回复，按创建时间正序。
	ListReplies(ctx context.Context, postID string) (*vo.ReplyListVO, error)

	// Like 点赞，返回自增后的帖子。
	Like(ctx context.Context, postID string) (*vo.PostResponse, error)

	// View 记录一次浏览，返回自增后的帖子。viewerID 可为空；开启去重时同一浏览者窗口期内只计一次。
	View(ctx context.Context, postID, viewerID string) (*vo.PostResponse, error)

	// LikeReply 给回复点赞。
	LikeReply(ctx context.Context, replyID string) (*vo.ReplyResponse, error)

	// ListCategories 分类列表，首项为 All。
	ListCategories() *vo.CategoryListVO
}

// EventPublisher 领域事件发布者，由 mq/producer 实现。
type EventPublisher interface {
	SendPostCreatedEvent(ctx context.Context, post events.PostData) error
	SendReplyCreatedEvent(ctx context.Context, reply events.ReplyData) error
}

// Option 可选依赖。
type Option func(*forumService)

// WithClock 替换时间来源，测试中用于构造确定的创建时间。
func WithClock(now func() time.Time) Option {
	return func(s *forumService) { s.now = now }
}

// WithEventPublisher 注入事件发布者；未注入时不发送事件。
func WithEventPublisher(p EventPublisher) Option {
	return func(s *forumService) { s.publisher = p }
}

// WithHotRank 注入热榜仓库；互动成功后增量更新热度。
func WithHotRank(r redis.HotRankRepository) Option {
	return func(s *forumService) { s.hotRank = r }
}

// WithViewDedup 注入浏览去重仓库；只有 counterConfig.viewDedup.enabled 为 true 时生效。
func WithViewDedup(r redis.ViewDedupRepository) Option {
	return func(s *forumService) { s.viewDedup = r }
}

// WithReadYourWrites 为 true 时读请求也走主库，保证调用方能读到自己刚写入的数据。
func WithReadYourWrites(enabled bool) Option {
	return func(s *forumService) { s.readYourWrites = enabled }
}

type forumService struct {
	db        *gorm.DB
	postRepo  mysql.PostRepository
	replyRepo mysql.ReplyRepository
	counter   config.CounterConfig
	logger    *core.ZapLogger

	publisher      EventPublisher
	hotRank        redis.HotRankRepository
	viewDedup      redis.ViewDedupRepository
	readYourWrites bool
	now            func() time.Time
}

// NewForumService 创建 ForumService。
func NewForumService(
	db *gorm.DB,
	postRepo mysql.PostRepository,
	replyRepo mysql.ReplyRepository,
	counter config.CounterConfig,
	logger *core.ZapLogger,
	opts ...Option,
) ForumService {
	if counter.WriteTimeout <= 0 {
		counter.WriteTimeout = 5 * time.Second
	}
	s := &forumService{
		db:        db,
		postRepo:  postRepo,
		replyRepo: replyRepo,
		counter:   counter,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// reader 返回读连接。每次调用都生成新的会话，不能缓存复用。
func (s *forumService) reader() *gorm.DB {
	if s.readYourWrites {
		return s.db.Clauses(dbresolver.Write)
	}
	return s.db
}

// timestamp 截断到毫秒，与 MySQL datetime(3) 的精度一致，返回值与落库值相同。
func (s *forumService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *forumService) CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*vo.PostResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, myErrors.NewValidationError("title", "标题不能为空")
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, myErrors.NewValidationError("body", "正文不能为空")
	}
	category, err := enums.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	post := &entities.Post{
		ID:        newID(),
		AuthorID:  req.AuthorID,
		Title:     title,
		Body:      body,
		Category:  category,
		Tags:      req.Tags.Normalize(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.postRepo.CreatePost(ctx, s.db, post); err != nil {
		s.logger.Error("创建帖子失败", zap.String("authorID", req.AuthorID), zap.Error(err))
		return nil, fmt.Errorf("创建帖子失败: %w", err)
	}
	metrics.PostsCreated.Inc()
	s.logger.Info("帖子创建成功", zap.String("postID", post.ID), zap.String("category", string(category)))

	if s.publisher != nil {
		data := events.PostData{
			ID:        post.ID,
			AuthorID:  post.AuthorID,
			Title:     post.Title,
			Category:  string(post.Category),
			Tags:      []string(post.Tags),
			CreatedAt: post.CreatedAt,
		}
		go func(pd events.PostData) {
			bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if kafkaErr := s.publisher.SendPostCreatedEvent(bgCtx, pd); kafkaErr != nil {
				s.logger.Error("发送 Kafka 帖子创建事件失败", zap.Error(kafkaErr), zap.String("postID", pd.ID))
			}
		}(data)
	}
	return vo.NewPostResponse(post), nil
}

func (s *forumService) ListPosts(ctx context.Context, filter query.Filter) (*vo.PostListVO, error) {
	posts, err := s.postRepo.ListPosts(ctx, s.reader(), 0)
	if err != nil {
		return nil, fmt.Errorf("获取帖子列表失败: %w", err)
	}
	result := query.Apply(posts, filter)
	return &vo.PostListVO{Posts: vo.NewPostResponses(result), Total: len(result)}, nil
}

func (s *forumService) GetPost(ctx context.Context, postID string) (*vo.PostResponse, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, myErrors.NewValidationError("post_id", "不能为空")
	}
	post, err := s.postRepo.GetPostByID(ctx, s.reader(), postID)
	if err != nil {
		return nil, err
	}
	return vo.NewPostResponse(post), nil
}

func (s *forumService) AddReply(ctx context.Context, postID string, req *dto.CreateReplyRequest) (*vo.ReplyResponse, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, myErrors.NewValidationError("post_id", "不能为空")
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, myErrors.NewValidationError("body", "回复内容不能为空")
	}

	reply := &entities.Reply{
		ID:        newID(),
		PostID:    postID,
		AuthorID:  req.AuthorID,
		Body:      body,
		CreatedAt: s.timestamp(),
	}

	// 父帖校验、回复写入、回复数自增必须在同一事务内：三者要么都生效，要么都回滚。
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, repoErr := s.postRepo.GetPostByID(ctx, tx, postID); repoErr != nil {
			return repoErr
		}
		if repoErr := s.replyRepo.CreateReply(ctx, tx, reply); repoErr != nil {
			return repoErr
		}
		return s.postRepo.IncrementReplyCount(ctx, tx, postID, 1)
	})
	if err != nil {
		if !errors.Is(err, myErrors.ErrNotFound) {
			s.logger.Error("创建回复事务失败", zap.String("postID", postID), zap.Error(err))
			metrics.CounterIncrements.WithLabelValues(string(enums.CounterReplies), metrics.ResultError).Inc()
		}
		return nil, fmt.Errorf("创建回复失败: %w", myErrors.NewStoreError("add reply", err))
	}
	metrics.RepliesCreated.Inc()
	metrics.CounterIncrements.WithLabelValues(string(enums.CounterReplies), metrics.ResultOK).Inc()
	s.logger.Info("回复创建成功", zap.String("postID", postID), zap.String("replyID", reply.ID))

	s.bumpHot(postID, constant.HotWeightReply)
	if s.publisher != nil {
		data := events.ReplyData{ID: reply.ID, PostID: reply.PostID, AuthorID: reply.AuthorID, CreatedAt: reply.CreatedAt}
		go func(rd events.ReplyData) {
			bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if kafkaErr := s.publisher.SendReplyCreatedEvent(bgCtx, rd); kafkaErr != nil {
				s.logger.Error("发送 Kafka 回复创建事件失败", zap.Error(kafkaErr), zap.String("replyID", rd.ID))
			}
		}(data)
	}
	return vo.NewReplyResponse(reply), nil
}

func (s *forumService) ListReplies(ctx context.Context, postID string) (*vo.ReplyListVO, error) {
	if _, err := s.postRepo.GetPostByID(ctx, s.reader(), postID); err != nil {
		return nil, err
	}
	replies, err := s.replyRepo.ListRepliesByPostID(ctx, s.reader(), postID)
	if err != nil {
		return nil, fmt.Errorf("获取回复列表失败: %w", err)
	}
	out := make([]*vo.ReplyResponse, 0, len(replies))
	for _, r := range replies {
		out = append(out, vo.NewReplyResponse(r))
	}
	return &vo.ReplyListVO{PostID: postID, Replies: out, Total: len(out)}, nil
}

// writeContext 点赞 / 浏览的写入上下文：不随调用方取消，只受 WriteTimeout 约束。
func (s *forumService) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.counter.WriteTimeout)
}

func (s *forumService) Like(ctx context.Context, postID string) (*vo.PostResponse, error) {
	post, err := s.increment(ctx, postID, enums.CounterLikes)
	if err != nil {
		return nil, err
	}
	s.bumpHot(postID, constant.HotWeightLike)
	return vo.NewPostResponse(post), nil
}

func (s *forumService) View(ctx context.Context, postID, viewerID string) (*vo.PostResponse, error) {
	marked := false
	if s.counter.ViewDedup.Enabled && s.viewDedup != nil && viewerID != "" {
		first, err := s.viewDedup.MarkViewed(ctx, postID, viewerID)
		switch {
		case err != nil:
			// 去重不可用时照常计数，宁多勿漏
			s.logger.Warn("浏览去重不可用，照常计数", zap.String("postID", postID), zap.Error(err))
		case !first:
			metrics.CounterIncrements.WithLabelValues(string(enums.CounterViews), metrics.ResultDeduped).Inc()
			return s.GetPost(ctx, postID)
		default:
			marked = true
		}
	}

	post, err := s.increment(ctx, postID, enums.CounterViews)
	if err != nil {
		if marked {
			s.unmarkViewed(ctx, postID, viewerID)
		}
		return nil, err
	}
	s.bumpHot(postID, constant.HotWeightView)
	return vo.NewPostResponse(post), nil
}

// unmarkViewed 计数没有写入时撤销去重标记，否则该浏览者在窗口期内的重试都会被当作重复浏览。
func (s *forumService) unmarkViewed(ctx context.Context, postID, viewerID string) {
	cleanupCtx, cancel := s.writeContext(ctx)
	defer cancel()
	if err := s.viewDedup.UnmarkViewed(cleanupCtx, postID, viewerID); err != nil {
		s.logger.Error("撤销浏览去重标记失败，窗口期内该浏览者的重试不会计数",
			zap.String("postID", postID), zap.String("viewerID", viewerID), zap.Error(err))
	}
}

func (s *forumService) increment(ctx context.Context, postID string, field enums.CounterField) (*entities.Post, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, myErrors.NewValidationError("post_id", "不能为空")
	}
	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	post, err := s.postRepo.IncrementCounter(writeCtx, s.db, postID, field, 1)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, myErrors.ErrNotFound) {
			result = metrics.ResultNotFound
		} else {
			s.logger.Warn("帖子计数自增失败", zap.String("postID", postID), zap.String("field", string(field)), zap.Error(err))
		}
		metrics.CounterIncrements.WithLabelValues(string(field), result).Inc()
		return nil, err
	}
	metrics.CounterIncrements.WithLabelValues(string(field), metrics.ResultOK).Inc()
	return post, nil
}

func (s *forumService) LikeReply(ctx context.Context, replyID string) (*vo.ReplyResponse, error) {
	if strings.TrimSpace(replyID) == "" {
		return nil, myErrors.NewValidationError("reply_id", "不能为空")
	}
	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	reply, err := s.replyRepo.IncrementReplyLikes(writeCtx, s.db, replyID, 1)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, myErrors.ErrNotFound) {
			result = metrics.ResultNotFound
		}
		metrics.CounterIncrements.WithLabelValues("reply_likes", result).Inc()
		return nil, err
	}
	metrics.CounterIncrements.WithLabelValues("reply_likes", metrics.ResultOK).Inc()
	return vo.NewReplyResponse(reply), nil
}

func (s *forumService) ListCategories() *vo.CategoryListVO {
	all := enums.Categories()
	names := make([]string, 0, len(all)+1)
	names = append(names, enums.CategoryAll)
	for _, c := range all {
		names = append(names, string(c))
	}
	return &vo.CategoryListVO{Categories: names}
}

// bumpHot 异步增量更新热榜。热榜是派生数据，失败只记日志，定时重建会修正。
func (s *forumService) bumpHot(postID string, delta float64) {
	if s.hotRank == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := s.hotRank.Bump(bgCtx, postID, delta); err != nil {
			s.logger.Warn("异步更新热榜失败", zap.String("postID", postID), zap.Float64("delta", delta), zap.Error(err))
		}
	}()
}
