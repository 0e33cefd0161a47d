package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/constant"
	"github.com/Xushengqwer/forum_service/models/dto"
	"github.com/Xushengqwer/forum_service/models/vo"
	"github.com/Xushengqwer/forum_service/repo/redis"
)

func postIDs(posts []*vo.PostResponse) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

// seedEngagement 创建三个热度不同的帖子：liked(3 赞=9) > replied(1 回复=5) > viewed(2 浏览=2)
func seedEngagement(t *testing.T, svc ForumService) (liked, replied, viewed string) {
	t.Helper()
	ctx := context.Background()
	mk := func(title string) string {
		p, err := svc.CreatePost(ctx, &dto.CreatePostRequest{Title: title, Body: "b", Category: "Tools"})
		require.NoError(t, err)
		return p.ID
	}
	liked, replied, viewed = mk("liked"), mk("replied"), mk("viewed")
	for i := 0; i < 3; i++ {
		_, err := svc.Like(ctx, liked)
		require.NoError(t, err)
	}
	_, err := svc.AddReply(ctx, replied, &dto.CreateReplyRequest{Body: "r"})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := svc.View(ctx, viewed, "")
		require.NoError(t, err)
	}
	return liked, replied, viewed
}

func TestHotPostsFallBackToDatabase(t *testing.T) {
	f := newFixture(t)
	liked, replied, viewed := seedEngagement(t, f.svc)

	hot := NewHotPostService(f.db, f.posts, nil, config.HotRankConfig{DefaultLimit: 10}, testLogger(t))
	got, err := hot.ListHotPosts(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, constant.HotSourceDatabase, got.Source)
	assert.Equal(t, []string{liked, replied, viewed}, postIDs(got.Posts))

	n, err := hot.RebuildHotRank(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHotPostsFromRedisAfterRebuild(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rank := redis.NewHotRankRepository(client, testLogger(t))

	f := newFixture(t)
	liked, replied, viewed := seedEngagement(t, f.svc)
	hot := NewHotPostService(f.db, f.posts, rank, config.HotRankConfig{Size: 2, DefaultLimit: 10}, testLogger(t))
	ctx := context.Background()

	// 榜单为空时回源数据库
	got, err := hot.ListHotPosts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, constant.HotSourceDatabase, got.Source)
	assert.Equal(t, []string{liked, replied}, postIDs(got.Posts))

	n, err := hot.RebuildHotRank(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err = hot.ListHotPosts(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, constant.HotSourceRedis, got.Source)
	assert.Equal(t, []string{liked, replied}, postIDs(got.Posts))
	assert.NotContains(t, postIDs(got.Posts), viewed)
}

func TestInteractionsBumpHotRank(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rank := redis.NewHotRankRepository(client, testLogger(t))

	f := newFixture(t, WithHotRank(rank))
	liked, _, _ := seedEngagement(t, f.svc)

	assert.Eventually(t, func() bool {
		score, err := client.ZScore(context.Background(), constant.HotRankKey, liked).Result()
		return err == nil && score == 3*constant.HotWeightLike
	}, 2*time.Second, 10*time.Millisecond)
}
