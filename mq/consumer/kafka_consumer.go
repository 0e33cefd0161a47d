package consumer

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/metrics"
)

const (
	defaultHandleTimeout  = 30 * time.Second
	defaultRedeliverDelay = 5 * time.Second
)

// MessageHandler 处理单条 Kafka 消息。
// 返回 nil 表示消息已处理完毕（包括主动丢弃），位移随即提交；
// 返回错误表示本次未能处理，位移不提交。
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// DeadLetterSender 接收处理失败的消息，转投到死信主题。
type DeadLetterSender interface {
	SendDeadLetter(ctx context.Context, msg kafka.Message, cause error) error
}

// messageReader kafka.Reader 中用到的方法，测试时可替换。
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer 逐条拉取消息，处理成功（或转入死信）后才提交位移。
// 处理失败且没有死信通道时，同一条消息间隔 redeliverDelay 后重新处理，
// 这会阻塞该分区后续消息，直到存储恢复。
type Consumer struct {
	reader         messageReader
	handler        MessageHandler
	deadLetter     DeadLetterSender
	logger         *core.ZapLogger
	topic          string
	handleTimeout  time.Duration
	redeliverDelay time.Duration
}

// ConsumerOption 定制 Consumer
type ConsumerOption func(*Consumer)

// WithDeadLetter 处理失败的消息转投死信主题后提交位移。
func WithDeadLetter(sender DeadLetterSender) ConsumerOption {
	return func(c *Consumer) { c.deadLetter = sender }
}

// NewConsumer 创建 Kafka Consumer 实例。位移由 Consumer 显式提交。
func NewConsumer(cfg *appConfig.KafkaConfig, groupID string, topicName string, handler MessageHandler, logger *core.ZapLogger, opts ...ConsumerOption) (*Consumer, error) {
	if topicName == "" {
		return nil, errors.New("kafka topic 名称不能为空")
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers 配置不能为空")
	}

	logger.Info("初始化 Kafka 消费者",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", topicName),
		zap.String("group_id", groupID))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topicName,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		MaxWait:  3 * time.Second,
	})
	return newConsumer(reader, topicName, handler, logger, opts...), nil
}

func newConsumer(reader messageReader, topic string, handler MessageHandler, logger *core.ZapLogger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:         reader,
		handler:        handler,
		logger:         logger,
		topic:          topic,
		handleTimeout:  defaultHandleTimeout,
		redeliverDelay: defaultRedeliverDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start 启动消费者循环，直到 ctx 取消或 reader 关闭。
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info("Kafka 消费者已启动", zap.String("topic", c.topic), zap.Bool("dead_letter", c.deadLetter != nil))
	defer c.logger.Info("Kafka 消费者已停止", zap.String("topic", c.topic))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				c.logger.Warn("消费者读取循环退出", zap.String("topic", c.topic), zap.Error(err))
				return
			}
			c.logger.Error("拉取 Kafka 消息失败", zap.String("topic", c.topic), zap.Error(err))
			if !sleepCtx(ctx, time.Second) {
				return
			}
			continue
		}

		if !c.process(ctx, msg) {
			return
		}
	}
}

// process 处理单条消息直到可以提交位移。ctx 结束时返回 false，消息保持未提交。
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	for attempt := 1; ; attempt++ {
		handleCtx, cancel := context.WithTimeout(ctx, c.handleTimeout)
		handleErr := c.handler.Handle(handleCtx, msg)
		cancel()

		if handleErr == nil {
			return c.commit(ctx, msg, metrics.ResultOK)
		}
		if ctx.Err() != nil {
			return false
		}

		c.logger.Error("处理 Kafka 消息失败",
			zap.Error(handleErr),
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt))

		if c.deadLetter != nil {
			dlErr := c.deadLetter.SendDeadLetter(ctx, msg, handleErr)
			if dlErr == nil {
				return c.commit(ctx, msg, metrics.ResultDeadLettered)
			}
			c.logger.Error("转投死信主题失败", zap.Error(dlErr), zap.Int64("offset", msg.Offset))
		}

		metrics.ConsumerMessages.WithLabelValues(c.topic, metrics.ResultRedelivered).Inc()
		if !sleepCtx(ctx, c.redeliverDelay) {
			return false
		}
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message, result string) bool {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		if ctx.Err() != nil {
			return false
		}
		// 提交失败的消息在重平衡后可能被再次投递
		c.logger.Error("提交 Kafka 位移失败", zap.Error(err), zap.String("topic", msg.Topic), zap.Int64("offset", msg.Offset))
	}
	metrics.ConsumerMessages.WithLabelValues(c.topic, result).Inc()
	return true
}

// Close 关闭 Kafka Reader
func (c *Consumer) Close() error {
	c.logger.Info("正在关闭 Kafka 消费者...", zap.String("topic", c.topic))
	if err := c.reader.Close(); err != nil {
		c.logger.Error("关闭 Kafka Reader 失败", zap.Error(err), zap.String("topic", c.topic))
		return err
	}
	c.logger.Info("Kafka 消费者已成功关闭", zap.String("topic", c.topic))
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
