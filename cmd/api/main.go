package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Peglo98/SocialSport2/internal/api"
	"github.com/Peglo98/SocialSport2/internal/api/handler"
	apimiddleware "github.com/Peglo98/SocialSport2/internal/api/middleware"
	"github.com/Peglo98/SocialSport2/internal/application"
	"github.com/Peglo98/SocialSport2/internal/config"
	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
	"github.com/Peglo98/SocialSport2/internal/domain/user"
	"github.com/Peglo98/SocialSport2/internal/hub"
	"github.com/Peglo98/SocialSport2/internal/infrastructure/geocode"
	"github.com/Peglo98/SocialSport2/internal/infrastructure/memory"
	"github.com/Peglo98/SocialSport2/internal/infrastructure/postgres"
	redisinfra "github.com/Peglo98/SocialSport2/internal/infrastructure/redis"
	"github.com/Peglo98/SocialSport2/internal/pkg/logger"
	"github.com/Peglo98/SocialSport2/internal/pkg/metrics"
	"github.com/Peglo98/SocialSport2/internal/worker"
)

func main() {
	// .env があれば読み込む（ローカル開発用）
	_ = godotenv.Load()

	cfg := config.Load()

	logger.Set(logger.NewLogger(cfg.Env))
	defer logger.Sync()

	m := metrics.Init()
	h := hub.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ストアのバックエンドを選択
	var (
		eventRepo    event.Repository
		messageRepo  message.Repository
		userProvider user.Provider
	)
	switch cfg.Store.Backend {
	case "memory":
		logger.Info("組み込みストアを使用（単一プロセス向け）")
		eventRepo = memory.NewEventRepository(cfg.Store.TxMaxAttempts)
		messageRepo = memory.NewMessageRepository()
		userProvider = memory.NewUserProvider()
	default:
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			logger.Fatal("データベース接続に失敗", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.RunMigrations(db.DB, cfg.Store.MigrationsPath); err != nil {
			logger.Fatal("マイグレーションに失敗", zap.Error(err))
		}

		eventRepo = postgres.NewEventRepository(db, cfg.Store.TxMaxAttempts)
		messageRepo = postgres.NewMessageRepository(db)
		userProvider = postgres.NewUserRepository(db)
	}

	loader := application.NewSnapshotLoader(eventRepo, messageRepo)

	// Redisは任意依存。未接続でも単一プロセス構成として動作する
	var changeFeed application.Feed
	var addressCache *redisinfra.AddressCache
	redisClient, err := redisinfra.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn("Redisに接続できないため単一プロセス構成で起動", zap.Error(err))
	} else {
		defer redisClient.Close()

		instanceID := uuid.NewString()
		feed := redisinfra.NewChangeFeed(redisClient, cfg.Redis.FeedChannel, instanceID)
		changeFeed = feed
		addressCache = redisinfra.NewAddressCache(redisClient, cfg.Geocode.CacheTTL)

		// 他のプロセスの変更を受信したらストアから読み直して配信する
		go func() {
			if err := feed.Listen(ctx, func(topic hub.Topic) {
				value, version, err := loader.Load(ctx, topic)
				if err != nil {
					logger.Warn("変更通知の反映に失敗",
						zap.String("topic", string(topic)), zap.Error(err))
					return
				}
				h.Publish(topic, version, value)
			}); err != nil && ctx.Err() == nil {
				logger.Error("変更通知の受信が停止", zap.Error(err))
			}
		}()
	}

	broadcaster := application.NewBroadcaster(h, changeFeed, eventRepo, messageRepo)

	// サービス層
	eventService := application.NewEventService(eventRepo, broadcaster)
	joinService := application.NewJoinService(eventRepo, broadcaster, m)
	chatService := application.NewChatService(eventRepo, messageRepo, broadcaster, m)
	searchService := application.NewSearchService(eventRepo)
	directory := application.NewDirectory(userProvider)

	// 住所解決はBaseURLが設定されている場合のみ有効
	var addressResolver handler.AddressResolverInterface
	if cfg.Geocode.BaseURL != "" {
		resolver := geocode.NewNominatimResolver(cfg.Geocode.BaseURL)
		if addressCache != nil {
			addressResolver = geocode.NewCachedResolver(resolver, addressCache)
		} else {
			addressResolver = resolver
		}
	}

	// 購読中トピックの定期再配信
	refresher := worker.NewTopicRefresher(h, loader, cfg.Hub.RefreshInterval)
	go refresher.Start(ctx)

	// ハンドラー
	eventHandler := handler.NewEventHandler(eventService, searchService, directory, addressResolver)
	joinHandler := handler.NewJoinHandler(joinService)
	chatHandler := handler.NewChatHandler(chatService)
	participantHandler := handler.NewParticipantHandler(directory)
	subscribeHandler := handler.NewSubscribeHandler(h, m)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Validator = api.NewValidator()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.POST("/events", eventHandler.Create)
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/nearby", eventHandler.Nearby)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.POST("/events/:id/join", joinHandler.Join, apimiddleware.RequireUser())
	v1.GET("/events/:id/messages", chatHandler.History)
	v1.POST("/events/:id/messages", chatHandler.Post, apimiddleware.RequireUser())
	v1.GET("/users/:id", participantHandler.GetByID)

	ws := e.Group("/ws")
	ws.GET("/events", subscribeHandler.Events)
	ws.GET("/events/:id", subscribeHandler.Event)
	ws.GET("/events/:id/chat", subscribeHandler.Chat)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	logger.Info("サーバー起動",
		zap.String("port", cfg.Server.Port),
		zap.String("store_backend", cfg.Store.Backend))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}

	refresher.Stop()
	cancel()

	logger.Info("サーバーが正常にシャットダウンしました")
}
