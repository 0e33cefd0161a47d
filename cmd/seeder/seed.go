package main

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Xushengqwer/forum_service/models/dto"
	"github.com/Xushengqwer/forum_service/models/enums"
	"github.com/Xushengqwer/forum_service/service"
)

// seedConcurrency 同时执行的帖子填充数
const seedConcurrency = 10

// SeedReport 一次填充的统计
type SeedReport struct {
	Posts   int64
	Replies int64
	Likes   int64
	Views   int64
	Failed  int64
}

// Seed 通过服务层生成 numPosts 个帖子，并为每个帖子随机生成回复、点赞与浏览，
// 这样计数、热榜与事件都走真实链路。单个帖子失败只记录日志，不中断整体填充。
func Seed(ctx context.Context, forumSvc service.ForumService, logger *core.ZapLogger, numPosts int) *SeedReport {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("数量", numPosts))

	var posts, replies, likes, views, failed atomic.Int64
	categories := enums.Categories()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)

	for i := 0; i < numPosts; i++ {
		itemIndex := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			createReq := &dto.CreatePostRequest{
				AuthorID: uuid.NewString(),
				Title:    strings.TrimSuffix(gofakeit.Sentence(gofakeit.Number(4, 10)), "."),
				Body:     gofakeit.Paragraph(2, 4, 20, "\n\n"),
				Category: string(categories[gofakeit.Number(0, len(categories)-1)]),
				Tags:     dto.TagList{strings.ToLower(gofakeit.BuzzWord()), strings.ToLower(gofakeit.HackerNoun())},
			}

			post, err := forumSvc.CreatePost(gctx, createReq)
			if err != nil {
				failed.Add(1)
				logger.Error(fmt.Sprintf("创建帖子 %d/%d 失败", itemIndex+1, numPosts),
					zap.Error(err),
					zap.String("title", createReq.Title))
				return nil
			}
			posts.Add(1)

			for r := gofakeit.Number(0, 5); r > 0; r-- {
				replyReq := &dto.CreateReplyRequest{
					AuthorID: uuid.NewString(),
					Body:     gofakeit.Sentence(gofakeit.Number(5, 20)),
				}
				if _, err := forumSvc.AddReply(gctx, post.ID, replyReq); err != nil {
					logger.Warn("创建回复失败", zap.String("post_id", post.ID), zap.Error(err))
					continue
				}
				replies.Add(1)
			}
			for l := gofakeit.Number(0, 20); l > 0; l-- {
				if _, err := forumSvc.Like(gctx, post.ID); err != nil {
					logger.Warn("点赞失败", zap.String("post_id", post.ID), zap.Error(err))
					continue
				}
				likes.Add(1)
			}
			for v := gofakeit.Number(0, 50); v > 0; v-- {
				if _, err := forumSvc.View(gctx, post.ID, uuid.NewString()); err != nil {
					logger.Warn("浏览计数失败", zap.String("post_id", post.ID), zap.Error(err))
					continue
				}
				views.Add(1)
			}

			logger.Info(fmt.Sprintf("成功创建帖子 %d/%d", itemIndex+1, numPosts),
				zap.String("post_id", post.ID),
				zap.String("title", post.Title),
				zap.String("category", string(post.Category)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("数据填充被中断", zap.Error(err))
	}

	report := &SeedReport{
		Posts:   posts.Load(),
		Replies: replies.Load(),
		Likes:   likes.Load(),
		Views:   views.Load(),
		Failed:  failed.Load(),
	}
	logger.Info("测试数据填充完毕 (通过服务层)。",
		zap.Int64("帖子", report.Posts),
		zap.Int64("回复", report.Replies),
		zap.Int64("点赞", report.Likes),
		zap.Int64("浏览", report.Views),
		zap.Int64("失败", report.Failed))
	return report
}
