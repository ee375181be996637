package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"zetrix-gateway/internal/handler"
	"zetrix-gateway/internal/model"
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/internal/server"
	"zetrix-gateway/internal/service"
	"zetrix-gateway/internal/service/mq"
	"zetrix-gateway/pkg/cache"
	"zetrix-gateway/pkg/config"
	"zetrix-gateway/pkg/database"
	"zetrix-gateway/pkg/ledger"
	"zetrix-gateway/pkg/logger"
	"zetrix-gateway/pkg/monitor"
	"zetrix-gateway/pkg/utils/lock"
	"zetrix-gateway/pkg/validator"
)

const submissionCacheTTL = 10 * time.Minute

func main() {
	// 0. 初始化 Config
	config.Init()
	cfg := config.Global

	// 1. 初始化 Logger
	logger.Init(cfg.App.Env, cfg.App.LogLevel)
	defer logger.Sync()

	validator.Init()
	monitor.Init()

	// 2. 连接 Zetrix 节点，失败时服务照常启动，请求返回 client not initialized
	holder := ledger.NewHolder(ledger.HTTPFactory(cfg.Ledger.Timeout))
	ledgerService := service.NewLedgerService(holder)
	if err := ledgerService.Switch(cfg.Ledger.URL); err != nil {
		logger.Error("Zetrix 客户端初始化失败", zap.String("url", cfg.Ledger.URL), zap.Error(err))
	}

	// 3. 提交流水 (可选)
	var journal service.Journal = service.NopJournal{}
	var db *gorm.DB
	var rdb *redis.Client
	if cfg.DB.Enabled {
		var err error
		db, err = database.ConnectPostgres(cfg.DB.DSN(), cfg.App.Env == "development")
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}
		if cfg.App.Env == "development" {
			logger.Info("开发环境: 自动迁移 Schema (GORM AutoMigrate)")
			if err := db.AutoMigrate(model.AllModels()...); err != nil {
				logger.Fatal("数据库自动迁移失败", zap.Error(err))
			}
		}
		// 按哈希查询走多级缓存，kafka 模式下只用本地缓存
		rdb = connectRedisIfNeeded(cfg)
		var remote cache.Cache
		if rdb != nil {
			remote = cache.NewRedisCache(rdb, "ztx:")
		}
		journal = service.NewCachedJournal(
			service.NewSQLJournal(db),
			cache.NewMultiLevelCache(cache.NewMemoryCache(submissionCacheTTL, time.Minute), remote),
			submissionCacheTTL,
		)
	}

	// 4. 交易流水线
	if cfg.App.AdminTokenHash == "" {
		logger.Warn("未配置 app.admin_token_hash，写接口不使用配置中的私钥")
	}
	p := pipeline.New(holder, service.ServerDefaults(cfg),
		pipeline.WithReporter(pipeline.MultiReporter(
			pipeline.LogReporter(),
			service.NewMetricsReporter(monitor.Business),
		)),
	)
	txService := service.NewTxService(p, journal)

	// 配置热更新：节点地址变化时重连，默认值随之替换
	config.Watch(func(old, updated config.Config) {
		if old.Ledger.URL != updated.Ledger.URL {
			_ = ledgerService.Switch(updated.Ledger.URL)
		}
		p.SetDefaults(service.ServerDefaults(updated))
	})

	// 5. HTTP Router
	r := server.NewHTTPRouter(server.Handlers{
		Tx:     handler.NewTxHandler(txService),
		Client: handler.NewClientHandler(ledgerService),
		Ledger: ledgerService,

		AdminTokenHash: cfg.App.AdminTokenHash,
	})
	app := server.New(server.Config{HttpPort: cfg.App.HttpPort}, r)

	// 6. Outbox 中继：启用数据库时把提交事件投递到 MQ，并定期清理已投递消息
	if db != nil {
		producer, _, err := mq.New(cfg, rdb)
		if err != nil {
			logger.Fatal("消息队列初始化失败", zap.Error(err))
		}
		app.Go(service.NewRelayService(db, producer).Start)

		var locker lock.DistributedLock = lock.NewMemoryLock(time.Minute)
		if rdb != nil {
			locker = lock.NewRedisLock(rdb)
		}
		app.Go(service.NewCronService(db, locker, cfg.Outbox.PurgeSpec, cfg.Outbox.Retention).Start)
	}

	// 7. 运行 (阻塞)
	app.Run()

	// 8. 退出后资源清理
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Info("系统已退出")
}

// connectRedisIfNeeded kafka 模式下不依赖 Redis
func connectRedisIfNeeded(cfg config.Config) *redis.Client {
	if cfg.Redis.MQType == "kafka" {
		return nil
	}
	rdb, err := database.ConnectRedis(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}
	return rdb
}
