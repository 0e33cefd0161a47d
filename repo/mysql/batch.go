// File: repo/mysql/batch.go
package mysql

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/models/entities"
)

// PostBatchOperationsRepository 面向后台任务的批量操作。
type PostBatchOperationsRepository interface {
	// ReconcileReplyCounts 分批、并发地把 posts.reply_count 与 replies 表的真实数量对账。
	// 只会把偏小的计数调高到真实值，不会调低（计数只增不减）；偏大的只记录日志。
	ReconcileReplyCounts(ctx context.Context) (*ReconcileReport, error)
}

// ReconcileReport 一次对账的统计结果。
type ReconcileReport struct {
	Scanned  int64 // 扫描的帖子数
	Raised   int64 // reply_count 被调高的帖子数
	Exceeded int64 // reply_count 大于真实回复数的帖子数（仅记录）
	Batches  int   // 批次数
}

type postBatchOperationsRepository struct {
	db           *gorm.DB
	logger       *core.ZapLogger
	reconcileCfg config.ReconcileConfig
}

// NewPostBatchOperationsRepository 创建批量操作仓库。
func NewPostBatchOperationsRepository(db *gorm.DB, logger *core.ZapLogger, reconcileCfg config.ReconcileConfig) PostBatchOperationsRepository {
	return &postBatchOperationsRepository{db: db, logger: logger, reconcileCfg: reconcileCfg}
}

// replyCountItem 在 worker 之间传递的帖子 ID 与其当前存储的回复数。
type replyCountItem struct {
	ID         string
	ReplyCount int64
}

// ReconcileReplyCounts 实现了回复数对账的核心逻辑。
//
// 核心机制:
// 1. 分页: 按 id 升序以 keyset 方式逐页读取帖子，每页即一个批次。
// 2. 并发处理: 根据 ConcurrencyLevel 启动 worker goroutine 池处理批次。
// 3. 对账: 每个批次一次 GROUP BY 统计真实回复数，再对偏小的帖子执行条件更新。
//
// 部分批次失败不会中断其他批次，错误聚合后返回。
func (r *postBatchOperationsRepository) ReconcileReplyCounts(ctx context.Context) (*ReconcileReport, error) {
	batchSize := r.reconcileCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
		r.logger.Warn("ReconcileReplyCounts: 配置 BatchSize 无效，使用默认值", zap.Int("defaultBatchSize", batchSize), zap.Int("configured", r.reconcileCfg.BatchSize))
	}
	concurrencyLevel := r.reconcileCfg.ConcurrencyLevel
	if concurrencyLevel <= 0 {
		concurrencyLevel = 1
		r.logger.Warn("ReconcileReplyCounts: 配置 ConcurrencyLevel 无效，使用默认值 1", zap.Int("configured", r.reconcileCfg.ConcurrencyLevel))
	}

	report := &ReconcileReport{}
	var scanned, raised, exceeded atomic.Int64

	var wg sync.WaitGroup
	jobs := make(chan []replyCountItem, concurrencyLevel)
	results := make(chan error, concurrencyLevel)
	overallStartTime := time.Now()

	// --- 启动 Worker Goroutines ---
	for i := 0; i < concurrencyLevel; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range jobs {
				if ctx.Err() != nil {
					results <- fmt.Errorf("worker %d: context cancelled: %w", workerID, ctx.Err())
					continue
				}
				up, over, err := r.processBatch(ctx, batch, workerID)
				scanned.Add(int64(len(batch)))
				raised.Add(up)
				exceeded.Add(over)
				results <- err
			}
		}(i)
	}

	// --- 分发任务：keyset 分页读取帖子 ---
	var dispatchErr error
	go func() {
		defer close(jobs)
		lastID := ""
		for {
			var page []replyCountItem
			err := r.db.WithContext(ctx).
				Model(&entities.Post{}).
				Select("id, reply_count").
				Where("id > ?", lastID).
				Order("id ASC").
				Limit(batchSize).
				Scan(&page).Error
			if err != nil {
				dispatchErr = fmt.Errorf("分页读取帖子失败 (lastID=%q): %w", lastID, err)
				return
			}
			if len(page) == 0 {
				return
			}
			report.Batches++
			select {
			case <-ctx.Done():
				r.logger.Warn("上下文取消，停止分发更多批次任务。", zap.Error(ctx.Err()))
				return
			case jobs <- page:
			}
			if len(page) < batchSize {
				return
			}
			lastID = page[len(page)-1].ID
		}
	}()

	// --- 收集结果 ---
	go func() {
		wg.Wait()
		close(results)
	}()

	var aggregatedErrors []string
	for err := range results {
		if err != nil {
			aggregatedErrors = append(aggregatedErrors, err.Error())
		}
	}
	if dispatchErr != nil {
		aggregatedErrors = append(aggregatedErrors, dispatchErr.Error())
	}

	report.Scanned = scanned.Load()
	report.Raised = raised.Load()
	report.Exceeded = exceeded.Load()
	r.logger.Info("回复数对账完成",
		zap.Duration("总耗时", time.Since(overallStartTime)),
		zap.Int("批次数", report.Batches),
		zap.Int64("扫描帖子数", report.Scanned),
		zap.Int64("调高数", report.Raised),
		zap.Int64("偏大数", report.Exceeded),
		zap.Int("失败批次数", len(aggregatedErrors)),
	)

	if len(aggregatedErrors) > 0 {
		return report, fmt.Errorf("回复数对账过程中发生错误 (%d 个): %s", len(aggregatedErrors), strings.Join(aggregatedErrors, "; "))
	}
	return report, nil
}

// processBatch 统计一个批次内帖子的真实回复数并修正偏小的计数。
func (r *postBatchOperationsRepository) processBatch(ctx context.Context, batch []replyCountItem, workerID int) (raised, exceeded int64, err error) {
	ids := make([]string, 0, len(batch))
	for _, item := range batch {
		ids = append(ids, item.ID)
	}

	var rows []struct {
		PostID string
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Reply{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		r.logger.Error("processBatch: 统计回复数失败", zap.Int("workerID", workerID), zap.Int("batchSize", len(batch)), zap.Error(err))
		return 0, 0, fmt.Errorf("worker %d 统计批次 (大小 %d) 失败: %w", workerID, len(batch), err)
	}
	actual := make(map[string]int64, len(rows))
	for _, row := range rows {
		actual[row.PostID] = row.Total
	}

	for _, item := range batch {
		total := actual[item.ID]
		switch {
		case total > item.ReplyCount:
			// 条件更新：并发的新回复可能已经把计数推高，只有仍然偏小时才覆盖
			result := r.db.WithContext(ctx).
				Model(&entities.Post{}).
				Where("id = ? AND reply_count < ?", item.ID, total).
				UpdateColumn("reply_count", total)
			if result.Error != nil {
				return raised, exceeded, fmt.Errorf("worker %d 修正帖子 %s 回复数失败: %w", workerID, item.ID, result.Error)
			}
			if result.RowsAffected > 0 {
				raised++
				r.logger.Warn("帖子回复数偏小，已修正", zap.String("postID", item.ID), zap.Int64("stored", item.ReplyCount), zap.Int64("actual", total))
			}
		case total < item.ReplyCount:
			exceeded++
			r.logger.Warn("帖子回复数大于真实回复数，计数只增不减，仅记录", zap.String("postID", item.ID), zap.Int64("stored", item.ReplyCount), zap.Int64("actual", total))
		}
	}
	return raised, exceeded, nil
}
