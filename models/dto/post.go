package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CreatePostRequest 发帖请求
// - AuthorID 优先取网关透传的用户ID，请求体里的 author_id 仅作兜底（例如 seeder 直接调用）。
type CreatePostRequest struct {
	AuthorID string  `json:"author_id"`
	Title    string  `json:"title" binding:"max=255"`
	Body     string  `json:"body"`
	Category string  `json:"category"`
	Tags     TagList `json:"tags" swaggertype:"array,string"`
}

// CreateReplyRequest 回复请求
type CreateReplyRequest struct {
	AuthorID string `json:"author_id"`
	Body     string `json:"body"`
}

// ListPostsQuery 帖子列表查询参数
type ListPostsQuery struct {
	// 分类，空或 All 表示不过滤
	Category string `form:"category"`
	// 关键词，匹配标题 / 正文 / 标签，忽略大小写
	Q string `form:"q" binding:"max=255"`
	// 0 表示不限制
	Limit int `form:"limit" binding:"gte=0"`
}

// HotPostsQuery 热帖查询参数
type HotPostsQuery struct {
	Limit int `form:"limit" binding:"gte=0,lte=100"`
}

// TagList 标签列表。JSON 中既可以是字符串数组，也可以是逗号分隔的字符串 "a, b,c"。
type TagList []string

// UnmarshalJSON 兼容两种输入格式。
func (t *TagList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tags 必须是字符串数组或逗号分隔的字符串: %w", err)
	}
	*t = strings.Split(joined, ",")
	return nil
}

// Normalize 去掉首尾空白并丢弃空标签，保持原有顺序。
func (t TagList) Normalize() []string {
	out := make([]string, 0, len(t))
	for _, tag := range t {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
