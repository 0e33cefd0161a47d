package query

import (
	"sort"

	"github.com/Xushengqwer/forum_service/constant"
	"github.com/Xushengqwer/forum_service/models/entities"
)

// HotScore 帖子热度：浏览*1 + 点赞*3 + 回复*5。
func HotScore(p *entities.Post) float64 {
	return float64(p.ViewCount)*constant.HotWeightView +
		float64(p.Likes)*constant.HotWeightLike +
		float64(p.ReplyCount)*constant.HotWeightReply
}

// RankByHotness 按热度降序排列，热度相同时沿用 Order 的顺序。limit <= 0 表示不截取。
func RankByHotness(posts []*entities.Post, limit int) []*entities.Post {
	out := Order(posts)
	sort.SliceStable(out, func(i, j int) bool {
		return HotScore(out[i]) > HotScore(out[j])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
