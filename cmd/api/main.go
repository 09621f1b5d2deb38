package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/opsdash/inventory-service/config"
	"github.com/opsdash/inventory-service/internal/auth"
	"github.com/opsdash/inventory-service/pkg/broker"
	"github.com/opsdash/inventory-service/pkg/cache"
	"github.com/opsdash/inventory-service/pkg/database/postgres"
	"github.com/opsdash/inventory-service/pkg/logger"
	"github.com/opsdash/inventory-service/pkg/search"

	catH "github.com/opsdash/inventory-service/internal/category/handler"
	catRepoPkg "github.com/opsdash/inventory-service/internal/category/repository"
	catUCPkg "github.com/opsdash/inventory-service/internal/category/usecase"

	prodH "github.com/opsdash/inventory-service/internal/product/handler"
	prodRepoPkg "github.com/opsdash/inventory-service/internal/product/repository"
	prodUCPkg "github.com/opsdash/inventory-service/internal/product/usecase"

	"github.com/opsdash/inventory-service/internal/stock"
	stockH "github.com/opsdash/inventory-service/internal/stock/handler"
	stockListenerPkg "github.com/opsdash/inventory-service/internal/stock/listener"
	stockRepoPkg "github.com/opsdash/inventory-service/internal/stock/repository"
	stockUCPkg "github.com/opsdash/inventory-service/internal/stock/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to postgres", zap.String("db_name", cfg.Postgres.DBName))

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("could not connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("could not connect to elasticsearch, search falls back to database", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("connected to elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("connected to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	stockRepo := stockRepoPkg.NewPGRepository(db)

	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, prodRepo, stock.RedisLocker{Cache: redisClient}, redisClient, appLogger)

	orderListener := stockListenerPkg.NewOrderEventListener(kafkaConsumer, stockUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go orderListener.Start(ctx)

	if cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1", auth.Middleware())
	catH.NewCategoryHandler(catUC, appLogger).Register(v1)
	prodH.NewProductHandler(prodUC, appLogger).Register(v1)
	stockH.NewStockHandler(stockUC, appLogger).Register(v1)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		appLogger.Info("starting http server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
