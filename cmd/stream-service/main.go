package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-pulse/internal/registry"
	"crypto-pulse/internal/stream/config"
	delivery "crypto-pulse/internal/stream/delivery/http"
	_ "crypto-pulse/internal/stream/docs"
	"crypto-pulse/internal/stream/repository"
	"crypto-pulse/internal/stream/service"
	"crypto-pulse/pkg/firebase"
	"crypto-pulse/pkg/logger"
	"crypto-pulse/pkg/postgres"
	"crypto-pulse/pkg/reddit"
	"crypto-pulse/pkg/redis"
	"crypto-pulse/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stream service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Stream Service", logger.Field("name", cfg.App.Name))

	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	fbClient, err := firebase.NewClient(ctx, firebase.Config{
		CredentialsFile: cfg.Firebase.CredentialsFile,
		ProjectID:       cfg.Firebase.ProjectID,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Firebase", logger.ErrorField(err))
	}
	defer fbClient.Close()

	redditClient, err := reddit.NewClient(reddit.Config{
		ClientID:            cfg.Reddit.ClientID,
		ClientSecret:        cfg.Reddit.ClientSecret,
		Username:            cfg.Reddit.Username,
		Password:            cfg.Reddit.Password,
		UserAgent:           cfg.Reddit.UserAgent,
		MaxRequestPerMinute: cfg.Reddit.MaxRequestPerMinute,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Reddit client", logger.ErrorField(err))
	}

	notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}

	// Initialize repositories
	registryRepo := registry.NewRepository(db.DB)
	rawMessageRepo := repository.NewRawMessageRepository(db.DB)
	newsRepo := repository.NewNewsRepository(db.DB)
	sentimentRepo := repository.NewAggregatedSentimentRepository(db.DB)
	subscriptionReader := repository.NewSubscriptionReader(fbClient.Firestore)

	reg, err := registry.Load(ctx, registryRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load registry", logger.ErrorField(err))
	}

	// Initialize services
	scorer, err := service.NewSentimentClient(cfg.Sentiment)
	if err != nil {
		appLogger.Fatal("Failed to initialize sentiment client", logger.ErrorField(err))
	}

	postTTL := 5 * time.Minute
	if cfg.Cache.PostTTL != "" {
		parsed, err := time.ParseDuration(cfg.Cache.PostTTL)
		if err != nil {
			appLogger.Fatal("Invalid post cache TTL", logger.ErrorField(err))
		}
		postTTL = parsed
	}
	postCache := service.NewPostCache(redisClient.Client, postTTL)

	fetcher := service.NewFetcher(redditClient, appLogger)
	ingestionSvc := service.NewIngestionService(reg, fetcher, scorer, rawMessageRepo, postCache, appLogger)
	newsRefreshSvc := service.NewNewsRefreshService(cfg, reg, newsRepo, scorer, appLogger)
	newsQuerySvc := service.NewNewsQueryService(newsRepo, appLogger)
	alertSvc := service.NewAlertService(reg, subscriptionReader, sentimentRepo, notifier, redisClient.Client, appLogger)

	scheduler := service.NewScheduler(cfg, ingestionSvc, newsRefreshSvc, alertSvc, appLogger)
	if err := scheduler.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}
	defer scheduler.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	handler := delivery.NewStreamHandler(ingestionSvc, newsQuerySvc, redditClient, appLogger)
	handler.RegisterRoutes(e)

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Crypto Pulse Stream API
// @version 1.0
// @description Reddit ingestion, news filtering and alerting endpoints.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{Use: "stream-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-stream.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing stream-service CLI: %s\n", err)
		os.Exit(1)
	}
}
