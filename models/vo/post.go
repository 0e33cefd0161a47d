package vo

import (
	"time"

	"github.com/Xushengqwer/forum_service/models/entities"
	"github.com/Xushengqwer/forum_service/models/enums"
)

// PostResponse 帖子对外展示结构
type PostResponse struct {
	ID         string         `json:"id"`
	AuthorID   string         `json:"author_id"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Category   enums.Category `json:"category" swaggertype:"string"`
	Tags       []string       `json:"tags"`
	Likes      int64          `json:"likes"`
	ReplyCount int64          `json:"reply_count"`
	ViewCount  int64          `json:"view_count"`
	Pinned     bool           `json:"pinned"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ReplyResponse 回复对外展示结构
type ReplyResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// PostListVO 帖子列表（已排序）
type PostListVO struct {
	Posts []*PostResponse `json:"posts"`
	Total int             `json:"total"`
}

// ReplyListVO 某帖子下的回复列表，按时间正序
type ReplyListVO struct {
	PostID  string           `json:"post_id"`
	Replies []*ReplyResponse `json:"replies"`
	Total   int              `json:"total"`
}

// HotPostsVO 热帖榜
type HotPostsVO struct {
	Posts []*PostResponse `json:"posts"`
	// Source 数据来源：redis 表示实时热榜，database 表示缓存不可用时的数据库兜底
	Source string `json:"source"`
}

// CategoryListVO 分类列表，首项固定为 All
type CategoryListVO struct {
	Categories []string `json:"categories"`
}

// NewPostResponse 实体转展示结构。
func NewPostResponse(p *entities.Post) *PostResponse {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	return &PostResponse{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		Title:      p.Title,
		Body:       p.Body,
		Category:   p.Category,
		Tags:       tags,
		Likes:      p.Likes,
		ReplyCount: p.ReplyCount,
		ViewCount:  p.ViewCount,
		Pinned:     p.Pinned,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// NewPostResponses 批量转换，保持顺序。
func NewPostResponses(posts []*entities.Post) []*PostResponse {
	out := make([]*PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p))
	}
	return out
}

// NewReplyResponse 实体转展示结构。
func NewReplyResponse(r *entities.Reply) *ReplyResponse {
	return &ReplyResponse{
		ID:        r.ID,
		PostID:    r.PostID,
		AuthorID:  r.AuthorID,
		Body:      r.Body,
		Likes:     r.Likes,
		CreatedAt: r.CreatedAt,
	}
}
