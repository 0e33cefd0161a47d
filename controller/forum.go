package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/forum_service/metrics"
	"github.com/Xushengqwer/forum_service/models/dto"
	"github.com/Xushengqwer/forum_service/models/enums"
	"github.com/Xushengqwer/forum_service/myErrors"
	"github.com/Xushengqwer/forum_service/query"
	"github.com/Xushengqwer/forum_service/service"
)

// engagementNotRecordedMsg 互动计数写入失败被吸收时返回给调用方的提示
const engagementNotRecordedMsg = "请求已接收，但本次计数未能记录"

// ForumController 帖子、回复与互动接口
type ForumController struct {
	forumService service.ForumService
	logger       *core.ZapLogger
}

// NewForumController 构造函数
func NewForumController(forumService service.ForumService, logger *core.ZapLogger) *ForumController {
	return &ForumController{forumService: forumService, logger: logger}
}

// CreatePost 发帖
// @Summary      发布帖子
// @Description  创建新帖子。作者优先取网关透传的 X-User-ID，缺失时使用请求体中的 author_id。tags 可以是字符串数组或逗号分隔的字符串。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string false "网关透传的用户ID"
// @Param        request body dto.CreatePostRequest true "帖子内容"
// @Success      200 {object} vo.PostResponseWrapper "帖子创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "标题 / 正文为空或分类非法"
// @Failure      500 {object} vo.BaseResponseWrapper "帖子未能保存"
// @Router       /api/v1/forum/posts [post]
func (ctrl *ForumController) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	if userID := currentUserID(c); userID != "" {
		req.AuthorID = userID
	}

	post, err := ctrl.forumService.CreatePost(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "发布帖子")
		return
	}
	response.RespondSuccess(c, post, "帖子创建成功")
}

// ListPosts 帖子列表 / 搜索
// @Summary      帖子列表
// @Description  按分类筛选、按关键词搜索（标题 / 正文 / 标签，忽略大小写）。结果按 置顶 > 创建时间降序 > ID 升序 排列。
// @Tags         posts (帖子)
// @Produce      json
// @Param        category query string false "分类，空或 All 表示全部"
// @Param        q query string false "搜索关键词" maxLength(255)
// @Param        limit query int false "最多返回条数，0 表示不限制" minimum(0)
// @Success      200 {object} vo.PostListResponseWrapper "帖子列表"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts [get]
func (ctrl *ForumController) ListPosts(c *gin.Context) {
	var q dto.ListPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}
	if !enums.IsAll(q.Category) {
		if _, err := enums.ParseCategory(q.Category); err != nil {
			respondServiceError(c, err, "获取帖子列表")
			return
		}
	}

	list, err := ctrl.forumService.ListPosts(c.Request.Context(), query.Filter{Category: q.Category, Term: q.Q, Limit: q.Limit})
	if err != nil {
		respondServiceError(c, err, "获取帖子列表")
		return
	}
	response.RespondSuccess(c, list, "帖子列表获取成功")
}

// GetPost 帖子详情
// @Summary      帖子详情
// @Description  获取单个帖子。不会增加浏览量，浏览请调用 /posts/{post_id}/view。
// @Tags         posts (帖子)
// @Produce      json
// @Param        post_id path string true "帖子ID"
// @Success      200 {object} vo.PostResponseWrapper "帖子详情"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts/{post_id} [get]
func (ctrl *ForumController) GetPost(c *gin.Context) {
	post, err := ctrl.forumService.GetPost(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		respondServiceError(c, err, "获取帖子详情")
		return
	}
	response.RespondSuccess(c, post, "帖子详情获取成功")
}

// ViewPost 记录浏览
// @Summary      浏览帖子
// @Description  浏览量 +1 并返回最新帖子。存储暂时不可用时返回 202，浏览不计入但不影响阅读。
// @Tags         engagement (互动)
// @Produce      json
// @Param        X-User-ID header string false "浏览者ID，开启去重时使用"
// @Param        post_id path string true "帖子ID"
// @Success      200 {object} vo.PostResponseWrapper "浏览已计入"
// @Success      202 {object} vo.BaseResponseWrapper "请求已接收，但本次计数未能记录"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/forum/posts/{post_id}/view [post]
func (ctrl *ForumController) ViewPost(c *gin.Context) {
	postID := c.Param("post_id")
	post, err := ctrl.forumService.View(c.Request.Context(), postID, currentUserID(c))
	if err != nil {
		if ctrl.absorbEngagementError(c, err, enums.EngagementView, postID) {
			return
		}
		respondServiceError(c, err, "浏览帖子")
		return
	}
	response.RespondSuccess(c, post, "浏览已计入")
}

// LikePost 点赞
// @Summary      点赞帖子
// @Description  点赞数 +1 并返回最新帖子。存储暂时不可用时返回 202。
// @Tags         engagement (互动)
// @Produce      json
// @Param        post_id path string true "帖子ID"
// @Success      200 {object} vo.PostResponseWrapper "点赞成功"
// @Success      202 {object} vo.BaseResponseWrapper "请求已接收，但本次计数未能记录"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/forum/posts/{post_id}/like [post]
func (ctrl *ForumController) LikePost(c *gin.Context) {
	postID := c.Param("post_id")
	post, err := ctrl.forumService.Like(c.Request.Context(), postID)
	if err != nil {
		if ctrl.absorbEngagementError(c, err, enums.EngagementLike, postID) {
			return
		}
		respondServiceError(c, err, "点赞帖子")
		return
	}
	response.RespondSuccess(c, post, "点赞成功")
}

// ListReplies 回复列表
// @Summary      回复列表
// @Description  获取帖子下全部回复，按创建时间正序。
// @Tags         replies (回复)
// @Produce      json
// @Param        post_id path string true "帖子ID"
// @Success      200 {object} vo.ReplyListResponseWrapper "回复列表"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts/{post_id}/replies [get]
func (ctrl *ForumController) ListReplies(c *gin.Context) {
	list, err := ctrl.forumService.ListReplies(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		respondServiceError(c, err, "获取回复列表")
		return
	}
	response.RespondSuccess(c, list, "回复列表获取成功")
}

// AddReply 回复帖子
// @Summary      回复帖子
// @Description  创建回复并使帖子回复数 +1，两者在同一事务内完成。
// @Tags         replies (回复)
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string false "网关透传的用户ID"
// @Param        post_id path string true "帖子ID"
// @Param        request body dto.CreateReplyRequest true "回复内容"
// @Success      200 {object} vo.ReplyResponseWrapper "回复成功"
// @Failure      400 {object} vo.BaseResponseWrapper "回复内容为空"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "回复未能保存"
// @Router       /api/v1/forum/posts/{post_id}/replies [post]
func (ctrl *ForumController) AddReply(c *gin.Context) {
	var req dto.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	if userID := currentUserID(c); userID != "" {
		req.AuthorID = userID
	}

	reply, err := ctrl.forumService.AddReply(c.Request.Context(), c.Param("post_id"), &req)
	if err != nil {
		respondServiceError(c, err, "回复帖子")
		return
	}
	response.RespondSuccess(c, reply, "回复成功")
}

// LikeReply 给回复点赞
// @Summary      点赞回复
// @Tags         engagement (互动)
// @Produce      json
// @Param        reply_id path string true "回复ID"
// @Success      200 {object} vo.ReplyResponseWrapper "点赞成功"
// @Success      202 {object} vo.BaseResponseWrapper "请求已接收，但本次计数未能记录"
// @Failure      404 {object} vo.BaseResponseWrapper "回复不存在"
// @Router       /api/v1/forum/replies/{reply_id}/like [post]
func (ctrl *ForumController) LikeReply(c *gin.Context) {
	replyID := c.Param("reply_id")
	reply, err := ctrl.forumService.LikeReply(c.Request.Context(), replyID)
	if err != nil {
		if ctrl.absorbEngagementError(c, err, enums.EngagementLike, replyID) {
			return
		}
		respondServiceError(c, err, "点赞回复")
		return
	}
	response.RespondSuccess(c, reply, "点赞成功")
}

// ListCategories 分类列表
// @Summary      分类列表
// @Description  返回全部帖子分类，首项为 All。
// @Tags         posts (帖子)
// @Produce      json
// @Success      200 {object} vo.CategoryListResponseWrapper "分类列表"
// @Router       /api/v1/forum/categories [get]
func (ctrl *ForumController) ListCategories(c *gin.Context) {
	response.RespondSuccess(c, ctrl.forumService.ListCategories(), "分类列表获取成功")
}

// absorbEngagementError 点赞 / 浏览是非关键写入：存储故障只记日志，返回 202，本次计数不会补记。
func (ctrl *ForumController) absorbEngagementError(c *gin.Context, err error, kind enums.EngagementKind, targetID string) bool {
	if !errors.Is(err, myErrors.ErrStore) {
		return false
	}
	ctrl.logger.Warn("互动计数写入失败，已吸收", zap.String("kind", string(kind)), zap.String("targetID", targetID), zap.Error(err))
	metrics.EngagementDropped.WithLabelValues(string(kind), metrics.ReasonStoreError).Inc()
	respondAccepted(c, engagementNotRecordedMsg)
	return true
}

// RegisterRoutes 注册论坛路由
func (ctrl *ForumController) RegisterRoutes(group *gin.RouterGroup) {
	posts := group.Group("/posts")
	{
		posts.POST("", ctrl.CreatePost)
		posts.GET("", ctrl.ListPosts)
		posts.GET("/:post_id", ctrl.GetPost)
		posts.POST("/:post_id/view", ctrl.ViewPost)
		posts.POST("/:post_id/like", ctrl.LikePost)
		posts.GET("/:post_id/replies", ctrl.ListReplies)
		posts.POST("/:post_id/replies", ctrl.AddReply)
	}
	group.POST("/replies/:reply_id/like", ctrl.LikeReply)
	group.GET("/categories", ctrl.ListCategories)
}
