package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"weekly-menu/internal/api"
	"weekly-menu/internal/app"
	"weekly-menu/internal/config"
	"weekly-menu/internal/logging"
	"weekly-menu/internal/telegram"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	if n, err := application.SeedRecipes(ctx); err != nil {
		logger.Warn("recipe seeding failed, the fallback catalogue will be served", zap.Error(err))
	} else if n > 0 {
		logger.Info("recipe catalogue seeded", zap.Int("recipes", n))
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(application)

	if cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBot(application)
		if err != nil {
			logger.Fatal("failed to initialize telegram bot", zap.Error(err))
		}
		if cfg.TelegramWebhookURL != "" {
			router.POST("/webhook", gin.WrapF(bot.HandleWebhook))
		} else {
			go bot.Poll(ctx)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}
