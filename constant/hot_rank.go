package constant

// 热度权重：score = 浏览*1 + 点赞*3 + 回复*5
const (
	HotWeightView  float64 = 1
	HotWeightLike  float64 = 3
	HotWeightReply float64 = 5
)

const (
	// HotSourceRedis 热榜来自 Redis ZSet
	HotSourceRedis = "redis"
	// HotSourceDatabase Redis 不可用或榜单为空时，从数据库现算
	HotSourceDatabase = "database"
)
