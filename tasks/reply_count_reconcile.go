package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/forum_service/repo/mysql"
)

// ReplyCountReconcileTask 定时对账 posts.reply_count 与真实回复数。
// 回复与计数在同一事务内写入，正常情况下不会出现偏差；
// 该任务兜底人工改库、数据迁移等事务之外的写入。
type ReplyCountReconcileTask struct {
	postBatchRepo mysql.PostBatchOperationsRepository
	cron          *cron.Cron
	logger        *core.ZapLogger
}

// NewReplyCountReconcileTask 初始化并启动回复数对账定时任务。
func NewReplyCountReconcileTask(postBatchRepo mysql.PostBatchOperationsRepository, schedule string, logger *core.ZapLogger) (*ReplyCountReconcileTask, error) {
	task := &ReplyCountReconcileTask{
		postBatchRepo: postBatchRepo,
		cron:          cron.New(),
		logger:        logger,
	}
	task.logger.Info("准备启动回复数对账定时任务", zap.String("schedule", schedule))
	entryID, err := task.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		task.RunOnce(ctx)
	})
	if err != nil {
		task.logger.Error("添加回复数对账 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
		return nil, fmt.Errorf("回复数对账调度表达式 %q 无效: %w", schedule, err)
	}
	task.cron.Start()
	task.logger.Info("回复数对账定时任务已启动", zap.Int("cronEntryID", int(entryID)))
	return task, nil
}

// RunOnce 执行一次对账，返回本次报告。
func (t *ReplyCountReconcileTask) RunOnce(ctx context.Context) *mysql.ReconcileReport {
	t.logger.Info("回复数对账任务开始执行...")
	report, err := t.postBatchRepo.ReconcileReplyCounts(ctx)
	if err != nil {
		t.logger.Error("回复数对账过程中发生错误", zap.Error(err))
	}
	if report != nil && report.Exceeded > 0 {
		t.logger.Warn("存在回复数大于真实回复数的帖子，计数只增不减，需人工核查", zap.Int64("count", report.Exceeded))
	}
	return report
}

// Stop 停止调度，返回的 context 在正在执行的任务结束后 Done。
func (t *ReplyCountReconcileTask) Stop() context.Context {
	t.logger.Info("正在停止回复数对账定时任务...")
	return t.cron.Stop()
}
