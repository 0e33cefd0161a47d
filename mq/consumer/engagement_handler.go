package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/forum_service/metrics"
	"github.com/Xushengqwer/forum_service/models/enums"
	"github.com/Xushengqwer/forum_service/models/events"
	"github.com/Xushengqwer/forum_service/myErrors"
	"github.com/Xushengqwer/forum_service/service"
)

// EngagementHandler 消费点赞 / 浏览事件并更新计数。
// 存储故障按退避重试有限次，仍失败时返回错误，由 Consumer 决定转入死信或稍后重投；
// 帖子不存在、消息格式错误等无法通过重试恢复的事件直接丢弃。
type EngagementHandler struct {
	logger       *core.ZapLogger
	forumService service.ForumService
	maxRetries   uint64
	newBackOff   func() backoff.BackOff
}

// NewEngagementHandler 创建互动事件处理器。
func NewEngagementHandler(logger *core.ZapLogger, forumService service.ForumService, maxRetries uint64) *EngagementHandler {
	return &EngagementHandler{
		logger:       logger,
		forumService: forumService,
		maxRetries:   maxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
	}
}

func (h *EngagementHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.EngagementEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("EngagementHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		metrics.EngagementDropped.WithLabelValues("unknown", metrics.ReasonMalformed).Inc()
		return nil // 不重试无法解析的消息
	}
	if event.PostID == "" || (event.Kind != enums.EngagementLike && event.Kind != enums.EngagementView) {
		h.logger.Warn("EngagementHandler: 事件缺少帖子ID或类型非法，丢弃", zap.String("event_id", event.EventID), zap.String("kind", string(event.Kind)))
		metrics.EngagementDropped.WithLabelValues(string(event.Kind), metrics.ReasonMalformed).Inc()
		return nil
	}

	operation := func() error {
		var err error
		switch event.Kind {
		case enums.EngagementLike:
			_, err = h.forumService.Like(ctx, event.PostID)
		case enums.EngagementView:
			_, err = h.forumService.View(ctx, event.PostID, event.ViewerID)
		}
		if err == nil || errors.Is(err, myErrors.ErrStore) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(h.newBackOff(), h.maxRetries), ctx)
	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		h.logger.Warn("EngagementHandler: 更新计数失败，准备重试",
			zap.String("event_id", event.EventID), zap.String("post_id", event.PostID), zap.Duration("wait", wait), zap.Error(err))
	})

	switch {
	case err == nil:
		h.logger.Debug("EngagementHandler: 互动计数已更新", zap.String("event_id", event.EventID), zap.String("kind", string(event.Kind)))
		return nil
	case ctx.Err() != nil:
		// 关停或处理超时，位移不提交
		return ctx.Err()
	case errors.Is(err, myErrors.ErrNotFound):
		h.logger.Warn("EngagementHandler: 帖子不存在，丢弃事件", zap.String("event_id", event.EventID), zap.String("post_id", event.PostID))
		metrics.EngagementDropped.WithLabelValues(string(event.Kind), metrics.ReasonNotFound).Inc()
		return nil
	case errors.Is(err, myErrors.ErrStore):
		h.logger.Error("EngagementHandler: 重试次数用尽", zap.String("event_id", event.EventID), zap.String("post_id", event.PostID), zap.Error(err))
		return err
	default:
		h.logger.Warn("EngagementHandler: 事件无法处理，丢弃", zap.String("event_id", event.EventID), zap.String("post_id", event.PostID), zap.Error(err))
		metrics.EngagementDropped.WithLabelValues(string(event.Kind), metrics.ReasonMalformed).Inc()
		return nil
	}
}
