package events

import (
	"time"

	"github.com/Xushengqwer/forum_service/models/enums"
)

// PostData 帖子事件中携带的核心数据，供下游索引 / 推荐服务使用。
type PostData struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// PostCreatedEvent 帖子创建成功（事务已提交）后发出。
type PostCreatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Post      PostData  `json:"post"`
}

// ReplyData 回复事件中携带的核心数据。
type ReplyData struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ReplyCreatedEvent 回复及父帖计数提交后发出。
type ReplyCreatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Reply     ReplyData `json:"reply"`
}

// EngagementEvent 由前端埋点 / 网关写入的互动事件（点赞、浏览），本服务消费后更新计数。
type EngagementEvent struct {
	EventID   string               `json:"event_id"`
	PostID    string               `json:"post_id"`
	ViewerID  string               `json:"viewer_id,omitempty"`
	Kind      enums.EngagementKind `json:"kind"`
	Timestamp time.Time            `json:"timestamp"`
}
