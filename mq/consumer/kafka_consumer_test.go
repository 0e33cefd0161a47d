package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader 按顺序返回预置消息，取完后阻塞到 ctx 结束。
type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		msg := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

// scriptedHandler 依次返回 errs 中的错误，用完后返回 fallback。
type scriptedHandler struct {
	mu       sync.Mutex
	errs     []error
	fallback error
	calls    int
}

func (h *scriptedHandler) Handle(context.Context, kafka.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if len(h.errs) > 0 {
		err := h.errs[0]
		h.errs = h.errs[1:]
		return err
	}
	return h.fallback
}

func (h *scriptedHandler) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

type fakeDeadLetter struct {
	mu   sync.Mutex
	err  error
	sent []kafka.Message
}

func (d *fakeDeadLetter) SendDeadLetter(_ context.Context, msg kafka.Message, _ error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, msg)
	return nil
}

func (d *fakeDeadLetter) sentCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

func startConsumer(t *testing.T, reader *fakeReader, handler MessageHandler, opts ...ConsumerOption) func() {
	t.Helper()
	c := newConsumer(reader, "forum.engagement", handler, testLogger(t), opts...)
	c.redeliverDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Start(ctx)
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	t.Cleanup(stop)
	return stop
}

func TestConsumerCommitsHandledMessages(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Offset: 0}, {Offset: 1}}}
	handler := &scriptedHandler{}
	startConsumer(t, reader, handler)

	require.Eventually(t, func() bool { return len(reader.commits()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{0, 1}, reader.commits())
	assert.Equal(t, 2, handler.callCount())
}

func TestConsumerRetriesSameMessageBeforeCommitting(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Offset: 7}, {Offset: 8}}}
	handler := &scriptedHandler{errs: []error{storeDown, storeDown}}
	startConsumer(t, reader, handler)

	require.Eventually(t, func() bool { return len(reader.commits()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{7, 8}, reader.commits(), "offset 7 committed only after it was handled")
	assert.Equal(t, 4, handler.callCount())
}

func TestConsumerDeadLettersFailedMessage(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Offset: 3}}}
	handler := &scriptedHandler{fallback: storeDown}
	dlq := &fakeDeadLetter{}
	startConsumer(t, reader, handler, WithDeadLetter(dlq))

	require.Eventually(t, func() bool { return len(reader.commits()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{3}, reader.commits())
	assert.Equal(t, 1, dlq.sentCount())
	assert.Equal(t, 1, handler.callCount())
}

func TestConsumerKeepsOffsetWhenDeadLetterFails(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Offset: 5}}}
	handler := &scriptedHandler{fallback: storeDown}
	dlq := &fakeDeadLetter{err: errors.New("broker down")}
	stop := startConsumer(t, reader, handler, WithDeadLetter(dlq))

	require.Eventually(t, func() bool { return handler.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	stop()
	assert.Empty(t, reader.commits())
	assert.Zero(t, dlq.sentCount())
}

// blockingHandler 一直处理到 ctx 结束。
type blockingHandler struct {
	started chan struct{}
}

func (h *blockingHandler) Handle(ctx context.Context, _ kafka.Message) error {
	close(h.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestConsumerShutdownLeavesMessageUncommitted(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Offset: 9}}}
	handler := &blockingHandler{started: make(chan struct{})}
	stop := startConsumer(t, reader, handler)

	select {
	case <-handler.started:
	case <-time.After(time.Second):
		t.Fatal("handler never started")
	}
	stop()
	assert.Empty(t, reader.commits())
}
