package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/models/entities"
	"github.com/Xushengqwer/forum_service/myErrors"
)

func newReply(postID string, createdAt time.Time) *entities.Reply {
	return &entities.Reply{
		ID:        uuid.Must(uuid.NewV7()).String(),
		PostID:    postID,
		AuthorID:  "author-2",
		Body:      "agreed",
		CreatedAt: createdAt,
	}
}

func TestReplyRepositoryListOrdering(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepository(db, testLogger(t))
	replies := NewReplyRepository(db, testLogger(t))
	ctx := context.Background()
	post := mustCreatePost(t, posts, db, newPost("thread", baseTime))

	late := newReply(post.ID, baseTime.Add(2*time.Minute))
	early := newReply(post.ID, baseTime.Add(time.Minute))
	other := newReply("another-post", baseTime)
	for _, r := range []*entities.Reply{late, early, other} {
		require.NoError(t, replies.CreateReply(ctx, db, r))
	}

	got, err := replies.ListRepliesByPostID(ctx, db, post.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, late.ID, got[1].ID)
}

func TestReplyRepositoryIncrementLikes(t *testing.T) {
	db := newTestDB(t)
	replies := NewReplyRepository(db, testLogger(t))
	ctx := context.Background()
	reply := newReply("p1", baseTime)
	require.NoError(t, replies.CreateReply(ctx, db, reply))

	updated, err := replies.IncrementReplyLikes(ctx, db, reply.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Likes)

	_, err = replies.IncrementReplyLikes(ctx, db, "missing", 1)
	assert.ErrorIs(t, err, myErrors.ErrNotFound)
}

// 回复写入与父帖计数在同一事务内，任一步失败都整体回滚。
func TestReplyTransactionRollsBackTogether(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepository(db, testLogger(t))
	replies := NewReplyRepository(db, testLogger(t))
	ctx := context.Background()
	post := mustCreatePost(t, posts, db, newPost("atomic", baseTime))

	boom := errors.New("simulated failure after insert")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := replies.CreateReply(ctx, tx, newReply(post.ID, baseTime)); err != nil {
			return err
		}
		if err := posts.IncrementReplyCount(ctx, tx, post.ID, 1); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := posts.GetPostByID(ctx, db, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ReplyCount)
	list, err := replies.ListRepliesByPostID(ctx, db, post.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReconcileReplyCountsOnlyRaises(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepository(db, testLogger(t))
	replies := NewReplyRepository(db, testLogger(t))
	batch := NewPostBatchOperationsRepository(db, testLogger(t), config.ReconcileConfig{BatchSize: 2, ConcurrencyLevel: 2})
	ctx := context.Background()

	behind := mustCreatePost(t, posts, db, newPost("behind", baseTime))
	ahead := mustCreatePost(t, posts, db, newPost("ahead", baseTime))
	exact := mustCreatePost(t, posts, db, newPost("exact", baseTime))
	empty := mustCreatePost(t, posts, db, newPost("empty", baseTime))

	// behind: 3 条回复但计数为 0
	for i := 0; i < 3; i++ {
		require.NoError(t, replies.CreateReply(ctx, db, newReply(behind.ID, baseTime)))
	}
	// ahead: 计数 5，真实 1
	require.NoError(t, replies.CreateReply(ctx, db, newReply(ahead.ID, baseTime)))
	require.NoError(t, db.Model(&entities.Post{}).Where("id = ?", ahead.ID).UpdateColumn("reply_count", 5).Error)
	// exact: 计数与真实一致
	require.NoError(t, replies.CreateReply(ctx, db, newReply(exact.ID, baseTime)))
	require.NoError(t, posts.IncrementReplyCount(ctx, db, exact.ID, 1))

	report, err := batch.ReconcileReplyCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), report.Scanned)
	assert.Equal(t, int64(1), report.Raised)
	assert.Equal(t, int64(1), report.Exceeded)
	assert.Equal(t, 2, report.Batches)

	expect := map[string]int64{behind.ID: 3, ahead.ID: 5, exact.ID: 1, empty.ID: 0}
	for id, want := range expect {
		got, err := posts.GetPostByID(ctx, db, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.ReplyCount, id)
	}
}
