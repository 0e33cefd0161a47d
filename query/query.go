// Package query 对帖子快照做筛选、搜索与排序。
// 所有函数都是纯函数：不访问存储，不修改入参切片，返回新的切片。
package query

import (
	"sort"
	"strings"

	"github.com/Xushengqwer/forum_service/models/entities"
	"github.com/Xushengqwer/forum_service/models/enums"
)

// Filter 列表查询条件
type Filter struct {
	// Category 空或 All 表示不过滤
	Category string
	// Term 关键词，空表示不过滤
	Term string
	// Limit 排序后截取的条数，<= 0 表示不限制
	Limit int
}

// FilterByCategory 按分类精确过滤；category 为空或 All 时原样返回（拷贝）。
func FilterByCategory(posts []*entities.Post, category string) []*entities.Post {
	if enums.IsAll(category) {
		return clone(posts)
	}
	want := enums.Category(strings.TrimSpace(category))
	if parsed, err := enums.ParseCategory(category); err == nil {
		want = parsed
	}
	out := make([]*entities.Post, 0, len(posts))
	for _, p := range posts {
		if p.Category == want {
			out = append(out, p)
		}
	}
	return out
}

// Search 忽略大小写，在标题、正文和标签中做子串匹配。空关键词匹配全部。
func Search(posts []*entities.Post, term string) []*entities.Post {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return clone(posts)
	}
	out := make([]*entities.Post, 0, len(posts))
	for _, p := range posts {
		if matches(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p *entities.Post, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) || strings.Contains(strings.ToLower(p.Body), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Order 置顶优先，其次 created_at 降序，最后 id 升序。
func Order(posts []*entities.Post) []*entities.Post {
	out := clone(posts)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b *entities.Post) bool {
	if a.Pinned != b.Pinned {
		return a.Pinned
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Apply 组合查询：先搜索、再按分类过滤，最后排序一次并截取。
// 搜索与分类过滤可交换，排序只在最后执行。
func Apply(posts []*entities.Post, f Filter) []*entities.Post {
	out := Order(FilterByCategory(Search(posts, f.Term), f.Category))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func clone(posts []*entities.Post) []*entities.Post {
	out := make([]*entities.Post, len(posts))
	copy(out, posts)
	return out
}
