package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/dependencies"
	"github.com/Xushengqwer/forum_service/mq/producer"
	"github.com/Xushengqwer/forum_service/repo/mysql"
	redisRepo "github.com/Xushengqwer/forum_service/repo/redis"
	forumServicePkg "github.com/Xushengqwer/forum_service/service"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var numPosts int
	var configFile string
	var waitSeconds int
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numPosts, "n", 50, "要生成的帖子数量 (默认: 50)")
	flag.IntVar(&waitSeconds, "wait", 5, "数据填充后等待的秒数 (确保异步任务完成, 默认: 5秒)")
	flag.Parse()

	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		fmt.Printf("无法获取配置文件的绝对路径 '%s': %v\n", configFile, err)
		absConfigFile = configFile
	}
	fmt.Printf("准备使用配置文件 '%s' 生成 %d 条测试帖子...\n", absConfigFile, numPosts)

	if numPosts <= 0 {
		fmt.Println("错误: 生成的帖子数量必须大于 0")
		os.Exit(1)
	}
	if waitSeconds < 0 {
		fmt.Println("错误: 等待秒数不能为负")
		os.Exit(1)
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.ForumConfig
	if err := appConfig.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}

	// --- 2. 初始化日志记录器 ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Logger().Sync()
	}()
	logger.Info("Logger 初始化成功 (Seeder)")

	// --- 3. 初始化数据库 ---
	db, dbErr := dependencies.InitDatabase(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化数据库失败 (Seeder)", zap.Error(dbErr))
	}
	logger.Info("数据库连接成功 (Seeder)", zap.String("driver", cfg.DatabaseConfig.Driver))

	// --- 4. 可选依赖：Redis 热榜、Kafka 事件 ---
	opts := []forumServicePkg.Option{forumServicePkg.WithReadYourWrites(!cfg.DatabaseConfig.StaleReads)}
	if cfg.RedisConfig.Addr != "" {
		rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
		if redisErr != nil {
			logger.Warn("初始化 Redis 失败 (Seeder)，热榜不会被增量更新", zap.Error(redisErr))
		} else {
			opts = append(opts, forumServicePkg.WithHotRank(redisRepo.NewHotRankRepository(rdb, logger)))
			defer rdb.Close()
		}
	}
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer := producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		opts = append(opts, forumServicePkg.WithEventPublisher(kafkaProducer))
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				logger.Error("关闭 Kafka 生产者失败 (Seeder)", zap.Error(err))
			}
		}()
		logger.Info("Kafka 生产者已初始化 (Seeder)")
	}

	// --- 5. 初始化 Repositories 与 Service ---
	postRepo := mysql.NewPostRepository(db, logger)
	replyRepo := mysql.NewReplyRepository(db, logger)
	forumSvc := forumServicePkg.NewForumService(db, postRepo, replyRepo, cfg.CounterConfig, logger, opts...)
	logger.Info("ForumService 已初始化 (Seeder)")

	// --- 6. 执行数据填充 ---
	ctx := context.Background()
	startTime := time.Now()
	report := Seed(ctx, forumSvc, logger, numPosts)
	logger.Info("数据填充主要逻辑完成！", zap.Duration("耗时", time.Since(startTime)))

	// --- 7. 等待异步的热榜更新与事件发送 ---
	if waitSeconds > 0 {
		logger.Info(fmt.Sprintf("Seeder: 等待 %d 秒以允许异步任务完成...", waitSeconds))
		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	fmt.Printf("数据填充完成！帖子 %d，回复 %d，点赞 %d，浏览 %d，失败 %d，总耗时: %v\n",
		report.Posts, report.Replies, report.Likes, report.Views, report.Failed, time.Since(startTime))
	if report.Failed > 0 {
		logger.Warn("部分帖子填充失败，详见上方日志", zap.Int64("失败", report.Failed))
	}
}
