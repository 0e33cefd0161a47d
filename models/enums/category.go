package enums

import (
	"strings"

	"github.com/Xushengqwer/forum_service/myErrors"
)

// Category 帖子分类。数据库中以规范名称字符串存储。
type Category string

const (
	CategoryStrategy       Category = "Strategy"
	CategoryImplementation Category = "Implementation"
	CategoryGovernance     Category = "Governance"
	CategoryTools          Category = "Tools"
	CategoryNetworking     Category = "Networking"
)

// CategoryAll 是列表筛选时的"全部"选项，不是合法的帖子分类。
const CategoryAll = "All"

var categories = []Category{
	CategoryStrategy,
	CategoryImplementation,
	CategoryGovernance,
	CategoryTools,
	CategoryNetworking,
}

// Categories 返回全部合法分类（按展示顺序）。
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid 判断是否为合法分类（区分大小写，要求已是规范名称）。
func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCategory 忽略大小写和首尾空白解析分类，返回规范名称。
func ParseCategory(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	for _, v := range categories {
		if strings.EqualFold(trimmed, string(v)) {
			return v, nil
		}
	}
	return "", myErrors.NewValidationError("category", "未知的帖子分类: "+raw)
}

// IsAll 判断筛选值是否表示不过滤（空值或 All）。
func IsAll(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || strings.EqualFold(trimmed, CategoryAll)
}
