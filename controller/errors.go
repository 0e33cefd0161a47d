package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/forum_service/myErrors"
)

// ErrCodeClientConflict 并发冲突，go-common 的错误码表中没有对应项。
const ErrCodeClientConflict = 40901

// respondServiceError 按错误分类映射 HTTP 状态码。
// 校验错误 400，不存在 404，冲突 409，其余 500。
func respondServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, myErrors.ErrValidation):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, action+"失败: "+err.Error())
	case errors.Is(err, myErrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, action+"失败: 资源不存在")
	case errors.Is(err, myErrors.ErrConflict):
		response.RespondError(c, http.StatusConflict, ErrCodeClientConflict, action+"失败: 并发冲突，请重试")
	default:
		_ = c.Error(err)
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, action+"失败，请稍后重试")
	}
}

// respondAccepted 202：请求已接收，但本次写入没有生效。
func respondAccepted(c *gin.Context, message string) {
	c.JSON(http.StatusAccepted, response.APIResponse[any]{Code: response.Success, Message: message})
}

// currentUserID 读取 UserContextMiddleware 放入的网关用户ID，未登录时为空。
func currentUserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(string(constants.UserIDKey)))
}
