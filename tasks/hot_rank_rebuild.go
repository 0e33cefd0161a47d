// File: tasks/hot_rank_rebuild.go
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/forum_service/service"
)

// HotRankRebuildTask 定时从数据库全量重建 Redis 热榜，修正增量 ZINCRBY 丢失或漂移的部分。
type HotRankRebuildTask struct {
	hotPostService service.HotPostService
	cron           *cron.Cron
	logger         *core.ZapLogger
}

// NewHotRankRebuildTask 初始化并启动热榜重建定时任务。
func NewHotRankRebuildTask(hotPostService service.HotPostService, schedule string, logger *core.ZapLogger) (*HotRankRebuildTask, error) {
	task := &HotRankRebuildTask{
		hotPostService: hotPostService,
		cron:           cron.New(),
		logger:         logger,
	}
	if err := task.startCronJob(schedule); err != nil {
		return nil, err
	}
	return task, nil
}

func (t *HotRankRebuildTask) startCronJob(schedule string) error {
	t.logger.Info("准备启动热榜重建定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.RunOnce(ctx)
	})
	if err != nil {
		t.logger.Error("添加热榜重建 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
		return fmt.Errorf("热榜重建调度表达式 %q 无效: %w", schedule, err)
	}

	t.cron.Start()
	t.logger.Info("热榜重建定时任务已启动", zap.Int("cronEntryID", int(entryID)))
	return nil
}

// RunOnce 执行一次重建，失败只记录日志，下个周期再试。
func (t *HotRankRebuildTask) RunOnce(ctx context.Context) {
	t.logger.Info("热榜重建任务开始执行...")
	startTime := time.Now()
	size, err := t.hotPostService.RebuildHotRank(ctx)
	if err != nil {
		t.logger.Error("热榜重建失败，保留现有热榜", zap.Error(err))
		return
	}
	t.logger.Info("热榜重建任务执行完毕", zap.Int("size", size), zap.Duration("duration", time.Since(startTime)))
}

// Stop 停止调度，返回的 context 在正在执行的任务结束后 Done。
func (t *HotRankRebuildTask) Stop() context.Context {
	t.logger.Info("正在停止热榜重建定时任务...")
	return t.cron.Stop()
}
