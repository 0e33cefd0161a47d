package enums

// CounterField 可原子自增的计数列，取值即数据库列名。
type CounterField string

const (
	CounterLikes   CounterField = "likes"
	CounterViews   CounterField = "view_count"
	CounterReplies CounterField = "reply_count"
)

// EngagementKind 外部互动事件的类型。
type EngagementKind string

const (
	EngagementLike EngagementKind = "like"
	EngagementView EngagementKind = "view"
)
