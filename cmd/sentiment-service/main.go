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
	"crypto-pulse/internal/sentiment/config"
	delivery "crypto-pulse/internal/sentiment/delivery/http"
	_ "crypto-pulse/internal/sentiment/docs"
	"crypto-pulse/internal/sentiment/repository"
	"crypto-pulse/internal/sentiment/service"
	"crypto-pulse/pkg/logger"
	"crypto-pulse/pkg/postgres"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the sentiment service",
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

	appLogger.Info("Starting Sentiment Service", logger.Field("name", cfg.App.Name))

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

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
	}

	// Initialize repositories
	registryRepo := registry.NewRepository(db.DB)
	rawMessageRepo := repository.NewRawMessageRepository(db.DB)
	aggregatedRepo := repository.NewAggregatedSentimentRepository(db.DB)
	aiRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI repository", logger.ErrorField(err))
	}

	reg, err := registry.Load(ctx, registryRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load registry", logger.ErrorField(err))
	}

	// Initialize services
	scorer, err := service.NewScorer()
	if err != nil {
		appLogger.Fatal("Failed to initialize scorer", logger.ErrorField(err))
	}
	aggregatorSvc := service.NewAggregatorService(reg, cfg.Aggregation.Weights, rawMessageRepo, aggregatedRepo, appLogger)
	explainSvc := service.NewExplainService(rawMessageRepo, aiRepo, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	handler := delivery.NewSentimentHandler(scorer, aggregatorSvc, explainSvc, appLogger)
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

// @title Crypto Pulse Sentiment API
// @version 1.0
// @description Text scoring, windowed aggregation and explanation endpoints.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{Use: "sentiment-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-sentiment.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing sentiment-service CLI: %s\n", err)
		os.Exit(1)
	}
}
