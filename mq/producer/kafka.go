package producer

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/models/events"
)

// messageWriter kafka.Writer 中用到的方法，测试时可替换。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer messageWriter
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(cfg config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newKafkaProducer(writer, cfg.Topics, logger)
}

func newKafkaProducer(writer messageWriter, topics config.Topics, logger *core.ZapLogger) *KafkaProducer {
	return &KafkaProducer{writer: writer, logger: logger, topics: topics}
}

// SendEvent 序列化为 JSON 后发送到指定主题。key 决定分区，同一帖子的事件保持有序。
func (p *KafkaProducer) SendEvent(ctx context.Context, topic, key string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("序列化 Kafka 事件失败", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("发送 Kafka 消息", zap.String("topic", topic), zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: eventBytes,
	})
	if err != nil {
		p.logger.Error("写入 Kafka 消息失败", zap.Error(err), zap.String("topic", topic))
		return err
	}
	p.logger.Info("Kafka 消息发送成功", zap.String("topic", topic))
	return nil
}

// SendPostCreatedEvent 帖子创建事件，供下游搜索 / 推荐服务建立索引。
func (p *KafkaProducer) SendPostCreatedEvent(ctx context.Context, post events.PostData) error {
	event := events.PostCreatedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Post:      post,
	}
	return p.SendEvent(ctx, p.topics.PostCreated, post.ID, event)
}

// SendReplyCreatedEvent 回复创建事件，以父帖 ID 作为 key。
func (p *KafkaProducer) SendReplyCreatedEvent(ctx context.Context, reply events.ReplyData) error {
	event := events.ReplyCreatedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Reply:     reply,
	}
	return p.SendEvent(ctx, p.topics.ReplyCreated, reply.PostID, event)
}

// 死信消息附带的来源信息头
const (
	HeaderOriginTopic     = "x-origin-topic"
	HeaderOriginPartition = "x-origin-partition"
	HeaderOriginOffset    = "x-origin-offset"
	HeaderFailure         = "x-failure"
)

// ErrDeadLetterDisabled 未配置死信主题
var ErrDeadLetterDisabled = errors.New("kafka: dead letter topic not configured")

// SendDeadLetter 把处理失败的原始消息转投到死信主题，保留 key、value 与原有 header。
func (p *KafkaProducer) SendDeadLetter(ctx context.Context, msg kafka.Message, cause error) error {
	if p.topics.DeadLetter == "" {
		return ErrDeadLetterDisabled
	}
	headers := append([]kafka.Header{}, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: HeaderOriginTopic, Value: []byte(msg.Topic)},
		kafka.Header{Key: HeaderOriginPartition, Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: HeaderOriginOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
	)
	if cause != nil {
		headers = append(headers, kafka.Header{Key: HeaderFailure, Value: []byte(cause.Error())})
	}

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic:   p.topics.DeadLetter,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	})
	if err != nil {
		p.logger.Error("写入死信消息失败", zap.Error(err), zap.String("topic", p.topics.DeadLetter), zap.Int64("origin_offset", msg.Offset))
		return err
	}
	p.logger.Warn("消息已转入死信主题", zap.String("topic", p.topics.DeadLetter), zap.String("origin_topic", msg.Topic), zap.Int64("origin_offset", msg.Offset))
	return nil
}

// Close 刷新缓冲并关闭 writer。
func (p *KafkaProducer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
		return err
	}
	return nil
}
