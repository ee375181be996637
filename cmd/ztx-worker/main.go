package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/internal/service"
	"zetrix-gateway/internal/service/mq"
	"zetrix-gateway/pkg/config"
	"zetrix-gateway/pkg/database"
	"zetrix-gateway/pkg/ledger"
	"zetrix-gateway/pkg/logger"
	"zetrix-gateway/pkg/monitor"
	"zetrix-gateway/pkg/utils/lock"
)

// ztx-worker 从 MQ 消费交易请求，逐条执行并发布结果
func main() {
	// 0. 初始化 Config / Logger
	config.Init()
	cfg := config.Global
	logger.Init(cfg.App.Env, cfg.App.LogLevel)
	defer logger.Sync()
	monitor.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 连接 Zetrix 节点
	holder := ledger.NewHolder(ledger.HTTPFactory(cfg.Ledger.Timeout))
	ledgerService := service.NewLedgerService(holder)
	if err := ledgerService.Switch(cfg.Ledger.URL); err != nil {
		logger.Error("Zetrix 客户端初始化失败", zap.String("url", cfg.Ledger.URL), zap.Error(err))
	}
	// 2. Redis：Streams 模式下作为消息队列，redis/asynq 模式下同时用于请求去重
	var rdb *redis.Client
	if cfg.Redis.MQType != "kafka" {
		var err error
		rdb, err = database.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Redis 连接失败", zap.Error(err))
		}
		defer rdb.Close()
	}

	var marker lock.Marker
	if rdb != nil {
		marker = lock.NewRedisLock(rdb)
	} else {
		logger.Warn("未使用 Redis，请求去重仅在本进程内生效")
		marker = lock.NewMemoryLock(time.Minute)
	}

	// 3. 消息队列
	producer, consumer, err := mq.New(cfg, rdb)
	if err != nil {
		logger.Fatal("消息队列初始化失败", zap.Error(err))
	}
	defer consumer.Close()

	// 4. 提交流水 (可选)
	var journal service.Journal = service.NopJournal{}
	var db *gorm.DB
	if cfg.DB.Enabled {
		db, err = database.ConnectPostgres(cfg.DB.DSN(), false)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}
		journal = service.NewSQLJournal(db)
		go service.NewRelayService(db, producer).Start(ctx)
	}

	// 5. 流水线与分发
	p := pipeline.New(holder, service.DefaultsFromConfig(cfg),
		pipeline.WithReporter(pipeline.MultiReporter(
			pipeline.LogReporter(),
			service.NewMetricsReporter(monitor.Business),
		)),
	)
	config.Watch(func(old, updated config.Config) {
		if old.Ledger.URL != updated.Ledger.URL {
			_ = ledgerService.Switch(updated.Ledger.URL)
		}
		p.SetDefaults(service.DefaultsFromConfig(updated))
	})

	dispatcher := service.NewDispatcher(
		service.NewTxService(p, journal),
		producer,
		marker,
		cfg.Worker.ResultTopic,
		cfg.Worker.DedupTTL,
	)

	logger.Info("ztx-worker 启动",
		zap.String("mq", cfg.Redis.MQType),
		zap.String("request_topic", cfg.Worker.RequestTopic),
		zap.String("result_topic", cfg.Worker.ResultTopic),
	)
	if err := dispatcher.Run(ctx, consumer, cfg.Worker.RequestTopic); err != nil {
		logger.Error("消费退出", zap.Error(err))
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	logger.Info("ztx-worker 已退出")
}
