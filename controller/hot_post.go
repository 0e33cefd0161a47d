package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/forum_service/models/dto"
	"github.com/Xushengqwer/forum_service/service"
)

// HotPostController 热门帖子控制器
type HotPostController struct {
	hotPostService service.HotPostService
}

// NewHotPostController 构造函数，注入服务层依赖
func NewHotPostController(hotPostService service.HotPostService) *HotPostController {
	return &HotPostController{hotPostService: hotPostService}
}

// ListHotPosts 处理获取热门帖子的 HTTP 请求
// @Summary      热门帖子
// @Description  按热度（浏览 + 3*点赞 + 5*回复）降序返回帖子。source 为 redis 表示实时热榜，database 表示回源计算。
// @Tags         hot-posts (热门帖子)
// @Produce      json
// @Param        limit query int false "返回条数，默认使用配置值" minimum(0) maximum(100)
// @Success      200 {object} vo.HotPostsResponseWrapper "热门帖子检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的 limit"
// @Failure      500 {object} vo.BaseResponseWrapper "检索热门帖子时发生内部服务器错误"
// @Router       /api/v1/forum/posts/hot [get]
func (ctrl *HotPostController) ListHotPosts(c *gin.Context) {
	var q dto.HotPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 limit，必须是 0-100 的整数")
		return
	}

	hot, err := ctrl.hotPostService.ListHotPosts(c.Request.Context(), q.Limit)
	if err != nil {
		respondServiceError(c, err, "检索热门帖子")
		return
	}
	response.RespondSuccess(c, hot, "热门帖子检索成功")
}

// RegisterRoutes 注册 HotPostController 的路由
func (ctrl *HotPostController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/posts/hot", ctrl.ListHotPosts)
}
