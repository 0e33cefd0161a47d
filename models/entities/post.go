package entities

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/Xushengqwer/forum_service/models/enums"
)

// Post 论坛帖子
// - 表名: posts
// - 创建后只会通过计数器自增被修改，不会删除，也不会更换分类。
type Post struct {
	// 主键，UUIDv7 字符串，按时间有序
	ID string `gorm:"type:char(36);primaryKey"`

	// 作者ID，来自网关透传的身份，本服务不做校验
	AuthorID string `gorm:"type:varchar(64);not null;index"`

	Title string `gorm:"type:varchar(255);not null"`
	Body  string `gorm:"type:text;not null"`

	// 分类，存规范名称
	Category enums.Category `gorm:"type:varchar(32);not null;index"`

	// 标签，保持用户输入的顺序，JSON 数组存储
	Tags datatypes.JSONSlice[string]

	// 冗余计数器，只增不减，统一通过原子 UPDATE col = col + ? 修改
	Likes      int64 `gorm:"not null;default:0"`
	ReplyCount int64 `gorm:"not null;default:0"`
	ViewCount  int64 `gorm:"not null;default:0"`

	// 置顶，由运营在库中直接设置，本服务不提供修改接口
	Pinned bool `gorm:"not null;default:false;index:idx_posts_listing,priority:1"`

	CreatedAt time.Time `gorm:"not null;index:idx_posts_listing,priority:2"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Validate 在从存储读出后校验记录，防止脏数据流入上层。
func (p *Post) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("帖子记录缺少 ID")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("帖子 %s 的分类非法: %q", p.ID, p.Category)
	}
	if p.Likes < 0 || p.ReplyCount < 0 || p.ViewCount < 0 {
		return fmt.Errorf("帖子 %s 的计数器为负数 (likes=%d, replies=%d, views=%d)",
			p.ID, p.Likes, p.ReplyCount, p.ViewCount)
	}
	return nil
}
