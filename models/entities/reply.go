package entities

import (
	"fmt"
	"time"
)

// Reply 帖子回复，创建后不可修改（点赞数除外）。
// - 表名: replies
type Reply struct {
	ID string `gorm:"type:char(36);primaryKey"`

	// 所属帖子，创建时在同一事务内校验帖子存在
	PostID string `gorm:"type:char(36);not null;index:idx_replies_post_created,priority:1"`

	AuthorID string `gorm:"type:varchar(64);not null"`
	Body     string `gorm:"type:text;not null"`
	Likes    int64  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;index:idx_replies_post_created,priority:2"`
}

// Validate 读出后的记录校验。
func (r *Reply) Validate() error {
	if r.ID == "" || r.PostID == "" {
		return fmt.Errorf("回复记录缺少 ID 或 PostID")
	}
	if r.Likes < 0 {
		return fmt.Errorf("回复 %s 的点赞数为负数: %d", r.ID, r.Likes)
	}
	return nil
}
