package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/core/tracing"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/forum_service/config"
	"github.com/Xushengqwer/forum_service/constant"
	"github.com/Xushengqwer/forum_service/controller"
	"github.com/Xushengqwer/forum_service/dependencies"
	_ "github.com/Xushengqwer/forum_service/docs"
	"github.com/Xushengqwer/forum_service/mq/consumer"
	"github.com/Xushengqwer/forum_service/mq/producer"
	"github.com/Xushengqwer/forum_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/forum_service/repo/redis"
	"github.com/Xushengqwer/forum_service/router"
	"github.com/Xushengqwer/forum_service/service"
	"github.com/Xushengqwer/forum_service/tasks"
)

// @title           Forum Service API
// @version         1.0
// @description     论坛服务，提供发帖、回复、点赞、浏览计数、搜索与热帖榜等功能。

// @host      localhost:8082
// @BasePath  /api/v1/forum
// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 本地开发时从 .env 加载环境变量（如 SERVERCONFIG_PORT），文件不存在不影响启动
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: 加载 .env 失败: %v", err)
	}

	// 1. 加载配置
	var cfg appConfig.ForumConfig
	if err := appConfig.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 2. 初始化 Logger
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功", zap.String("service", constant.ServiceName), zap.String("version", constant.ServiceVersion))

	// 3. 初始化 TracerProvider
	tracerShutdown := func(context.Context) error { return nil }
	if cfg.TracerConfig.Enabled {
		shutdown, err := tracing.InitTracerProvider(constant.ServiceName, constant.ServiceVersion, cfg.TracerConfig)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		tracerShutdown = shutdown
		logger.Info("分布式追踪已初始化")
	} else {
		logger.Info("分布式追踪已禁用")
	}

	// --- 4. 初始化核心依赖 ---
	// 4.1 数据库
	db, dbErr := dependencies.InitDatabase(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化数据库失败", zap.Error(dbErr))
	}
	logger.Info("数据库连接成功", zap.String("driver", cfg.DatabaseConfig.Driver))

	// 4.2 Redis（可选）：热榜与浏览去重
	// 接口类型的变量保持字面 nil，不能赋值为 nil 指针
	var hotRankRepo redisrepo.HotRankRepository
	var viewDedupRepo redisrepo.ViewDedupRepository
	if cfg.RedisConfig.Addr != "" {
		rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
		if redisErr != nil {
			logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
		}
		defer rdb.Close()
		hotRankRepo = redisrepo.NewHotRankRepository(rdb, logger)
		if cfg.CounterConfig.ViewDedup.Enabled {
			viewDedupRepo = redisrepo.NewViewDedupRepository(rdb, logger, cfg.CounterConfig.ViewDedup.Window)
			logger.Info("浏览去重已开启", zap.Duration("window", cfg.CounterConfig.ViewDedup.Window))
		}
		logger.Info("Redis 连接成功")
	} else {
		logger.Warn("未配置 Redis，热榜将直接由数据库计算，浏览去重关闭")
	}

	// 4.3 Kafka 生产者（可选）
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Warn("未配置 Kafka brokers，领域事件不会发送")
	}

	// --- 5. 初始化数据仓库层 (Repositories) ---
	postRepo := mysql.NewPostRepository(db, logger)
	replyRepo := mysql.NewReplyRepository(db, logger)
	postBatchRepo := mysql.NewPostBatchOperationsRepository(db, logger, cfg.ReconcileConfig)
	logger.Debug("Repositories 初始化完成")

	// --- 6. 初始化服务层 (Services) ---
	opts := []service.Option{service.WithReadYourWrites(!cfg.DatabaseConfig.StaleReads)}
	if hotRankRepo != nil {
		opts = append(opts, service.WithHotRank(hotRankRepo))
	}
	if viewDedupRepo != nil {
		opts = append(opts, service.WithViewDedup(viewDedupRepo))
	}
	if kafkaProducer != nil {
		opts = append(opts, service.WithEventPublisher(kafkaProducer))
	}
	forumService := service.NewForumService(db, postRepo, replyRepo, cfg.CounterConfig, logger, opts...)
	hotPostService := service.NewHotPostService(db, postRepo, hotRankRepo, cfg.HotRankConfig, logger)
	logger.Debug("Services 初始化完成")

	// --- 7. 初始化控制器层 (Controllers) ---
	forumController := controller.NewForumController(forumService, logger)
	hotPostController := controller.NewHotPostController(hotPostService)
	logger.Debug("Controllers 初始化完成")

	// --- 8. 初始化 Kafka 消费者 ---
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup
	consumerCtx, consumerCancel := context.WithCancel(context.Background())

	engagementTopic := cfg.KafkaConfig.Topics.Engagement
	if len(cfg.KafkaConfig.Brokers) > 0 && engagementTopic != "" {
		groupID := cfg.KafkaConfig.ConsumerGroupID
		if groupID == "" {
			logger.Warn("Kafka ConsumerGroupID 未在配置中设置，将使用默认值 'forum_service_group'")
			groupID = "forum_service_group"
		}
		engagementHandler := consumer.NewEngagementHandler(logger, forumService, cfg.KafkaConfig.MaxRetries)
		var consumerOpts []consumer.ConsumerOption
		if kafkaProducer != nil && cfg.KafkaConfig.Topics.DeadLetter != "" {
			consumerOpts = append(consumerOpts, consumer.WithDeadLetter(kafkaProducer))
			logger.Info("互动事件死信主题已启用", zap.String("topic", cfg.KafkaConfig.Topics.DeadLetter))
		}
		engagementConsumer, err := consumer.NewConsumer(&cfg.KafkaConfig, groupID, engagementTopic, engagementHandler, logger, consumerOpts...)
		if err != nil {
			logger.Fatal("初始化互动事件 Kafka 消费者失败", zap.Error(err))
		}
		consumers = append(consumers, engagementConsumer)

		for _, c := range consumers {
			consumerWg.Add(1)
			go func(cons *consumer.Consumer) {
				defer consumerWg.Done()
				cons.Start(consumerCtx)
			}(c)
		}
		logger.Info("互动事件 Kafka 消费者已启动", zap.String("topic", engagementTopic))
	} else {
		logger.Warn("Kafka 未配置或 engagement topic 为空，跳过消费者初始化")
	}

	// --- 9. 初始化定时任务 ---
	var stopFuncs []func() context.Context
	if hotRankRepo != nil {
		hotRankTask, err := tasks.NewHotRankRebuildTask(hotPostService, cfg.HotRankConfig.CronSpec, logger)
		if err != nil {
			logger.Fatal("初始化热榜重建任务失败", zap.Error(err))
		}
		// 启动时先重建一次，避免热榜在第一个调度周期内为空
		go hotRankTask.RunOnce(context.Background())
		stopFuncs = append(stopFuncs, hotRankTask.Stop)
	}
	reconcileTask, err := tasks.NewReplyCountReconcileTask(postBatchRepo, cfg.ReconcileConfig.CronSpec, logger)
	if err != nil {
		logger.Fatal("初始化回复数对账任务失败", zap.Error(err))
	}
	stopFuncs = append(stopFuncs, reconcileTask.Stop)
	logger.Info("后台定时任务已初始化并启动", zap.Int("count", len(stopFuncs)))

	// --- 10. 设置 Gin 路由器 ---
	// 运行模式由 GIN_MODE 环境变量控制
	ginRouter := router.SetupRouter(logger, &cfg, forumController, hotPostController)

	// --- 11. 启动 HTTP 服务器 ---
	serverAddr := fmt.Sprintf("%s:%s", cfg.ServerConfig.ListenAddr, cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}
	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 12. 优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// a. 停止 HTTP 服务器 (允许处理完当前请求)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 关闭 Kafka 消费者
	consumerCancel()
	consumerWg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭 Kafka 消费者时出错", zap.Error(err))
		}
	}
	logger.Info("所有 Kafka 消费者已停止")

	// c. 停止定时任务调度器 (等待正在运行的任务结束)
	for _, stop := range stopFuncs {
		select {
		case <-stop().Done():
		case <-shutdownCtx.Done():
			logger.Error("等待定时任务停止超时", zap.Error(shutdownCtx.Err()))
		}
	}
	logger.Info("所有定时任务已停止")

	// d. 关闭 Kafka 生产者（刷出尚未发送的事件）
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
		}
	}

	// e. 关闭 TracerProvider
	if err := tracerShutdown(shutdownCtx); err != nil {
		logger.Error("关闭 TracerProvider 失败", zap.Error(err))
	}

	logger.Info("服务已成功关闭")
}
