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

	"crypto-pulse/internal/auth/config"
	delivery "crypto-pulse/internal/auth/delivery/http"
	_ "crypto-pulse/internal/auth/docs"
	"crypto-pulse/internal/auth/middleware"
	"crypto-pulse/internal/auth/repository"
	"crypto-pulse/internal/auth/service"
	"crypto-pulse/pkg/firebase"
	"crypto-pulse/pkg/logger"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the auth service",
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

	appLogger.Info("Starting Auth Service", logger.Field("name", cfg.App.Name))

	fbClient, err := firebase.NewClient(ctx, firebase.Config{
		CredentialsFile: cfg.Firebase.CredentialsFile,
		ProjectID:       cfg.Firebase.ProjectID,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Firebase", logger.ErrorField(err))
	}
	defer fbClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(fbClient.Firestore)
	subRepo := repository.NewSubscriptionRepository(fbClient.Firestore)

	// Initialize services
	authSvc := service.NewAuthService(fbClient.Auth, userRepo, appLogger)
	userSvc := service.NewUserService(userRepo, appLogger)
	subSvc := service.NewSubscriptionService(subRepo, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.CORS())

	requireAuth := middleware.RequireAuth(fbClient.Auth)

	authHandler := delivery.NewAuthHandler(cfg, authSvc, appLogger)
	apiGroup := e.Group("/api")
	authHandler.RegisterRoutes(apiGroup)

	userHandler := delivery.NewUserHandler(userSvc, appLogger)
	usersGroup := apiGroup.Group("/users", requireAuth)
	userHandler.RegisterRoutes(usersGroup)

	alertHandler := delivery.NewAlertHandler(subSvc, appLogger)
	alertsGroup := e.Group("/alerts", requireAuth)
	alertHandler.RegisterRoutes(alertsGroup)

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

// @title Crypto Pulse Auth API
// @version 1.0
// @description Google sign-in, user profiles and alert subscriptions.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{Use: "auth-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-auth.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing auth-service CLI: %s\n", err)
		os.Exit(1)
	}
}
