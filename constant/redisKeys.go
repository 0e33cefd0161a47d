package constant

// Redis Key 相关常量 (导出)
const (
	// HotRankKey 热帖榜 ZSet。
	// 成员是帖子 ID，分数是加权热度（浏览 + 3*点赞 + 5*回复）。
	// 互动发生后增量 ZINCRBY，定时任务再从数据库全量重建，Redis 数据丢失可完全恢复。
	// Redis 类型: Sorted Set
	HotRankKey = "forum:hot_rank"

	// HotRankTmpKeyPrefix 重建热榜时先写入的临时 Key 前缀，写完后 RENAME 覆盖 HotRankKey。
	HotRankTmpKeyPrefix = "forum:hot_rank:tmp:"

	// ViewSeenPrefix 浏览去重标记的 Key 前缀。
	// 示例 Key: "forum:view_seen:{postID}:{viewerID}"，SET NX EX 写入，过期即窗口结束。
	// Redis 类型: String
	ViewSeenPrefix = "forum:view_seen:"
)
