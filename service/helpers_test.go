package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/dependencies"
	"github.com/Xushengqwer/forum_service/models/events"
	"github.com/Xushengqwer/forum_service/repo/mysql"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dependencies.InitSQLite(filepath.Join(t.TempDir(), "forum.db"), commonConfig.GormLogConfig{Level: "silent"}, testLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// stepClock 每次调用前进一秒，保证创建时间严格递增。
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

type recordingPublisher struct {
	mu      sync.Mutex
	posts   []events.PostData
	replies []events.ReplyData
}

func (p *recordingPublisher) SendPostCreatedEvent(_ context.Context, post events.PostData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, post)
	return nil
}

func (p *recordingPublisher) SendReplyCreatedEvent(_ context.Context, reply events.ReplyData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, reply)
	return nil
}

func (p *recordingPublisher) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.posts), len(p.replies)
}

type fixture struct {
	db      *gorm.DB
	posts   mysql.PostRepository
	replies mysql.ReplyRepository
	svc     ForumService
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	return newFixtureWithCounter(t, config.CounterConfig{WriteTimeout: 5 * time.Second}, opts...)
}

func newFixtureWithCounter(t *testing.T, counter config.CounterConfig, opts ...Option) *fixture {
	t.Helper()
	db := newTestDB(t)
	posts := mysql.NewPostRepository(db, testLogger(t))
	replies := mysql.NewReplyRepository(db, testLogger(t))
	opts = append([]Option{WithClock(newStepClock().Now)}, opts...)
	svc := NewForumService(db, posts, replies, counter, testLogger(t), opts...)
	return &fixture{db: db, posts: posts, replies: replies, svc: svc}
}

func testLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{Level: "error", Encoding: "console"})
	require.NoError(t, err)
	return logger
}
