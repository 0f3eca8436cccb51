package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chattflow/backend/internal/cache"
	"chattflow/backend/internal/config"
	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/health"
	"chattflow/backend/internal/logger"
	"chattflow/backend/internal/mailer"
	"chattflow/backend/internal/monitoring"
	"chattflow/backend/internal/service"
	"chattflow/backend/internal/storage/memory"
	redisstore "chattflow/backend/internal/storage/redis"
	sqlstore "chattflow/backend/internal/storage/sql"
	httptransport "chattflow/backend/internal/transport/http"
)

// main 启动邮件营销管理后端。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     "",
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	log.Info("starting chattflow server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 初始化存储层
	var store domain.Store

	if cfg.Database.Type != "" && cfg.Database.DSN != "" {
		sqlStore, err := sqlstore.NewStore(
			cfg.Database.Type,
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
		if err != nil {
			panic(fmt.Sprintf("failed to initialize database storage: %v", err))
		}
		if err := sqlStore.Migrate(); err != nil {
			panic(fmt.Sprintf("failed to migrate database schema: %v", err))
		}
		store = sqlStore
		log.Info("using database storage", zap.String("type", cfg.Database.Type))
	} else {
		store = memory.NewStore()
		log.Info("using memory storage (development mode)")
	}
	defer store.Close()

	// 初始化监控系统
	metrics := monitoring.NewMetrics()

	// 初始化健康检查
	healthChecker := health.NewHealthChecker(store, log)

	// 初始化告警系统
	alertManager := monitoring.NewAlertManager(log)
	alertManager.AddReceiver(monitoring.NewLogAlertReceiver(log))
	alertManager.AddRule(monitoring.HighMemoryUsageRule(512.0)) // 512MB
	alertManager.AddRule(monitoring.StoreConnectionRule(store))

	// 初始化邮件网关客户端
	sender := mailer.NewGatewayClient(mailer.GatewayConfig{
		BaseURL:   cfg.Gateway.BaseURL,
		Timeout:   cfg.Gateway.Timeout,
		RateLimit: cfg.Gateway.RateLimit,
		RateBurst: cfg.Gateway.RateBurst,
	}, log)
	log.Info("email gateway configured",
		zap.String("base_url", cfg.Gateway.BaseURL),
		zap.Duration("timeout", cfg.Gateway.Timeout),
		zap.Int("rate_limit", cfg.Gateway.RateLimit),
	)

	// 初始化服务层
	contactService := service.NewContactService(store)
	templateService := service.NewTemplateService(store)
	tagService := service.NewTagService(store)
	broadcastService := service.NewBroadcastService(store, sender, service.BroadcastConfig{
		Workers:       cfg.Broadcast.Workers,
		BroadcastFrom: cfg.Gateway.BroadcastFrom,
		DirectFrom:    cfg.Gateway.DirectFrom,
	}, log)
	broadcastService.SetMetrics(metrics)

	// 标签计数缓存：启用 Redis 时走 Redis，否则使用进程内缓存。
	// 标签服务读缓存，联系人服务在变更后使其失效，两者共用同一实例。
	var countCache service.TagCountCache = cache.NewLocalTagCountCache(0)
	if cfg.Redis.Enabled {
		redisClient, err := redisstore.New(&cfg.Redis, log)
		if err != nil {
			log.Warn("failed to connect to Redis, falling back to local tag count cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			countCache = redisstore.NewTagCountCache(redisClient, 0, log)
			log.Info("tag count cache backed by Redis", zap.String("address", cfg.Redis.Address))
		}
	}
	tagService.SetCountCache(countCache)
	contactService.SetCountCache(countCache)

	// 创建 HTTP 服务器
	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:           cfg,
		ContactService:   contactService,
		TagService:       tagService,
		TemplateService:  templateService,
		BroadcastService: broadcastService,
		Metrics:          metrics,
		Logger:           log,
	})

	// 健康检查处理器（用于 Kubernetes 等）
	router.GET("/health/live", gin.WrapH(healthChecker.Handler()))
	router.GET("/health/ready", gin.WrapH(healthChecker.Handler()))

	// Prometheus 指标端点
	router.GET("/metrics", gin.WrapH(metrics.HTTPHandler()))

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // 广播扇出可能较慢
		IdleTimeout:       120 * time.Second,
	}

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// 运行时长指标 goroutine
	group.Go(func() error {
		started := time.Now()
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				metrics.UpdateSystemUptime(time.Since(started))
			}
		}
	})

	// 告警监控 goroutine
	group.Go(func() error {
		log.Info("starting alert monitoring")
		alertManager.StartMonitoring(groupCtx, 1*time.Minute)
		return nil
	})

	// 优雅关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}

		log.Info("server stopped")
		return nil
	})

	// 等待所有 goroutine 完成
	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Fatal("server error", zap.Error(err))
	}

	log.Info("server exited cleanly")
}
