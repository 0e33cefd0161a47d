package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/models/events"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

var topics = config.Topics{PostCreated: "forum.post.created", ReplyCreated: "forum.reply.created"}

func TestSendPostCreatedEvent(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaProducer(w, topics, testLogger(t))

	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	err := p.SendPostCreatedEvent(context.Background(), events.PostData{ID: "p1", Title: "AI ROI Measurement", Category: "Strategy", CreatedAt: createdAt})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "forum.post.created", msg.Topic)
	assert.Equal(t, "p1", string(msg.Key))

	var event events.PostCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	_, err = uuid.Parse(event.EventID)
	assert.NoError(t, err)
	assert.Equal(t, "AI ROI Measurement", event.Post.Title)
	assert.True(t, createdAt.Equal(event.Post.CreatedAt))
}

func TestSendReplyCreatedEventKeyedByPost(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaProducer(w, topics, testLogger(t))

	require.NoError(t, p.SendReplyCreatedEvent(context.Background(), events.ReplyData{ID: "r1", PostID: "p1"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "forum.reply.created", w.msgs[0].Topic)
	assert.Equal(t, "p1", string(w.msgs[0].Key))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestSendEventPropagatesWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := newKafkaProducer(&fakeWriter{err: boom}, topics, testLogger(t))
	err := p.SendPostCreatedEvent(context.Background(), events.PostData{ID: "p1"})
	assert.ErrorIs(t, err, boom)
}

func TestSendDeadLetterKeepsOrigin(t *testing.T) {
	w := &fakeWriter{}
	withDLQ := topics
	withDLQ.DeadLetter = "forum.engagement.dlq"
	p := newKafkaProducer(w, withDLQ, testLogger(t))

	origin := kafka.Message{
		Topic:     "forum.engagement",
		Partition: 2,
		Offset:    41,
		Key:       []byte("p1"),
		Value:     []byte(`{"post_id":"p1","kind":"like"}`),
		Headers:   []kafka.Header{{Key: "trace", Value: []byte("abc")}},
	}
	require.NoError(t, p.SendDeadLetter(context.Background(), origin, errors.New("store unavailable")))
	require.Len(t, w.msgs, 1)

	dlq := w.msgs[0]
	assert.Equal(t, "forum.engagement.dlq", dlq.Topic)
	assert.Equal(t, origin.Key, dlq.Key)
	assert.Equal(t, origin.Value, dlq.Value)

	headers := map[string]string{}
	for _, h := range dlq.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "abc", headers["trace"])
	assert.Equal(t, "forum.engagement", headers[HeaderOriginTopic])
	assert.Equal(t, "2", headers[HeaderOriginPartition])
	assert.Equal(t, "41", headers[HeaderOriginOffset])
	assert.Equal(t, "store unavailable", headers[HeaderFailure])
}

func TestSendDeadLetterRequiresTopic(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaProducer(w, topics, testLogger(t))
	err := p.SendDeadLetter(context.Background(), kafka.Message{Value: []byte("x")}, nil)
	assert.ErrorIs(t, err, ErrDeadLetterDisabled)
	assert.Empty(t, w.msgs)
}

func testLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{Level: "error", Encoding: "console"})
	require.NoError(t, err)
	return logger
}
