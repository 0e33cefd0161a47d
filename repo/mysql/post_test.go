package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Xushengqwer/forum_service/models/entities"
	"github.com/Xushengqwer/forum_service/models/enums"
	"github.com/Xushengqwer/forum_service/myErrors"
)

func TestPostRepositoryCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, testLogger(t))
	ctx := context.Background()

	post := newPost("Measuring AI ROI", baseTime)
	post.Tags = []string{"roi", "metrics"}
	mustCreatePost(t, repo, db, post)

	got, err := repo.GetPostByID(ctx, nil, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Measuring AI ROI", got.Title)
	assert.Equal(t, enums.CategoryStrategy, got.Category)
	assert.Equal(t, []string{"roi", "metrics"}, []string(got.Tags))
	assert.Zero(t, got.Likes)
	assert.Zero(t, got.ReplyCount)
	assert.Zero(t, got.ViewCount)
	assert.False(t, got.Pinned)
	assert.True(t, baseTime.Equal(got.CreatedAt))
}

func TestPostRepositoryGetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, testLogger(t))

	_, err := repo.GetPostByID(context.Background(), db, "does-not-exist")
	assert.ErrorIs(t, err, myErrors.ErrNotFound)
}

func TestPostRepositoryRejectsCorruptRecord(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, testLogger(t))
	post := mustCreatePost(t, repo, db, newPost("corrupt", baseTime))

	require.NoError(t, db.Model(&entities.Post{}).Where("id = ?", post.ID).UpdateColumn("category", "Gossip").Error)

	_, err := repo.GetPostByID(context.Background(), db, post.ID)
	assert.ErrorIs(t, err, myErrors.ErrStore)
}

func TestPostRepositoryListOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, testLogger(t))

	older := mustCreatePost(t, repo, db, newPost("older", baseTime))
	newer := mustCreatePost(t, repo, db, newPost("newer", baseTime.Add(time.Hour)))
	pinned := newPost("pinned", baseTime.Add(-24*time.Hour))
	pinned.Pinned = true
	mustCreatePost(t, repo, db, pinned)

	posts, err := repo.ListPosts(context.Background(), db, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{pinned.ID, newer.ID, older.ID}, []string{posts[0].ID, posts[1].ID, posts[2].ID})

	limited, err := repo.ListPosts(context.Background(), db, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestPostRepositoryGetPostsByIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, testLogger(t))
	a := mustCreatePost(t, repo, db, newPost("a", baseTime))
	b := mustCreatePost(t, repo, db, newPost("b", baseTime))

	posts, err := repo.GetPostsByIDs(context.Background(), db, []string{a.ID, "missing", b.ID})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	empty, err := repo.GetPostsByIDs(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIncrementCounterConcurrentNoLostUpdates(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, testLogger(t))
	post := mustCreatePost(t, repo, db, newPost("popular", baseTime))

	const n = 50
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := repo.IncrementCounter(context.Background(), db, post.ID, enums.CounterLikes, 1)
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := repo.GetPostByID(context.Background(), db, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Likes)
	assert.Zero(t, got.ViewCount)
}

func TestIncrementCounterReturnsUpdatedPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, testLogger(t))
	post := mustCreatePost(t, repo, db, newPost("viewed", baseTime))

	updated, err := repo.IncrementCounter(context.Background(), db, post.ID, enums.CounterViews, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ViewCount)
}

func TestIncrementCounterErrors(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, testLogger(t))
	post := mustCreatePost(t, repo, db, newPost("guarded", baseTime))
	ctx := context.Background()

	_, err := repo.IncrementCounter(ctx, db, "missing", enums.CounterLikes, 1)
	assert.ErrorIs(t, err, myErrors.ErrNotFound)

	_, err = repo.IncrementCounter(ctx, db, post.ID, enums.CounterLikes, 0)
	assert.ErrorIs(t, err, myErrors.ErrValidation)

	_, err = repo.IncrementCounter(ctx, db, post.ID, enums.CounterReplies, 1)
	assert.ErrorIs(t, err, myErrors.ErrValidation, "reply_count only moves with reply creation")

	_, err = repo.IncrementCounter(ctx, db, post.ID, enums.CounterField("title"), 1)
	assert.ErrorIs(t, err, myErrors.ErrValidation)

	got, err := repo.GetPostByID(ctx, db, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Likes)
}
