package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Xushengqwer/forum_service/models/enums"
	"github.com/Xushengqwer/forum_service/myErrors"
)

// counterColumns 允许原子自增的 (表, 列) 白名单。列名会直接拼进 SQL 表达式，必须走白名单。
var counterColumns = map[string]map[enums.CounterField]struct{}{
	"posts": {
		enums.CounterLikes:   {},
		enums.CounterViews:   {},
		enums.CounterReplies: {},
	},
	"replies": {
		enums.CounterLikes: {},
	},
}

// incrementColumn 对单行执行 UPDATE table SET col = col + ? WHERE id = ?。
// 自增在数据库端完成，不存在先读后写，N 个并发调用的结果一定是初始值 + N*delta。
// 影响行数为 0 说明记录不存在。
func incrementColumn(ctx context.Context, db *gorm.DB, model interface{}, table, id string, field enums.CounterField, delta int64) error {
	if delta <= 0 {
		return myErrors.NewValidationError("delta", fmt.Sprintf("计数增量必须为正数, 实际为 %d", delta))
	}
	if _, ok := counterColumns[table][field]; !ok {
		return myErrors.NewValidationError("field", fmt.Sprintf("表 %s 不允许自增列 %q", table, field))
	}
	if id == "" {
		return myErrors.NewValidationError("id", "不能为空")
	}

	col := string(field)
	result := db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		UpdateColumn(col, gorm.Expr(col+" + ?", delta))
	if result.Error != nil {
		return myErrors.NewStoreError(fmt.Sprintf("increment %s.%s", table, col), result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", table, id, myErrors.ErrNotFound)
	}
	return nil
}
