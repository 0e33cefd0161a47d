package vo

// --- 用于成功响应且包含具体 Data 的包装器，仅供 swag 生成文档 ---

// PostResponseWrapper 对应 response.APIResponse{Data: vo.PostResponse}
type PostResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    PostResponse `json:"data"`
}

// PostListResponseWrapper 对应 response.APIResponse{Data: vo.PostListVO}
type PostListResponseWrapper struct {
	Code    int        `json:"code" example:"0"`
	Message string     `json:"message,omitempty" example:"success"`
	Data    PostListVO `json:"data"`
}

// ReplyResponseWrapper 对应 response.APIResponse{Data: vo.ReplyResponse}
type ReplyResponseWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    ReplyResponse `json:"data"`
}

// ReplyListResponseWrapper 对应 response.APIResponse{Data: vo.ReplyListVO}
type ReplyListResponseWrapper struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message,omitempty" example:"success"`
	Data    ReplyListVO `json:"data"`
}

// HotPostsResponseWrapper 对应 response.APIResponse{Data: vo.HotPostsVO}
type HotPostsResponseWrapper struct {
	Code    int        `json:"code" example:"0"`
	Message string     `json:"message,omitempty" example:"success"`
	Data    HotPostsVO `json:"data"`
}

// CategoryListResponseWrapper 对应 response.APIResponse{Data: vo.CategoryListVO}
type CategoryListResponseWrapper struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message,omitempty" example:"success"`
	Data    CategoryListVO `json:"data"`
}

// --- 用于错误响应 或 简单成功响应（只有 Code 和 Message） ---

// BaseResponseWrapper 代表一个只包含 Code 和 Message 的响应。
type BaseResponseWrapper struct {
	Code    int    `json:"code" example:"0"`
	Message string `json:"message" example:"success"`
}
