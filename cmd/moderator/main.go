package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogora/moderation/pkg/common"
	"github.com/blogora/moderation/pkg/config"
	handlers "github.com/blogora/moderation/pkg/handlers/http"
	"github.com/blogora/moderation/pkg/infra/cache"
	"github.com/blogora/moderation/pkg/infra/httpx"
	infraLogger "github.com/blogora/moderation/pkg/infra/logger"
	"github.com/blogora/moderation/pkg/infra/safesearch"
	"github.com/blogora/moderation/pkg/moderation"
	"github.com/blogora/moderation/pkg/server"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.WithError(err).Warn("running with default configuration")
	}
	cfg := config.GetConfig()

	if cfg.SafeSearch.APIKey == "" {
		cfg.SafeSearch.APIKey = os.Getenv("SAFESEARCH_API_KEY")
	}

	classifier := buildClassifier(cfg, logger)

	moderationService := moderation.NewService(moderation.DefaultTables(), classifier, logger)

	handlerTransport := handlers.HandlerTransport{
		ModeratePostHandler: handlers.NewModeratePostHandler(logger, moderationService),
	}

	srv := server.NewModerationServer(server.ModerationServerDI{
		HandlerTransport: handlerTransport,
		Config:           cfg,
		Logger:           logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}

// buildClassifier wires the capability-checked safe-search dependency: the
// Vision client when credentials are present, a disabled client otherwise,
// optionally wrapped with the redis annotation cache.
func buildClassifier(cfg *config.Config, logger *logrus.Logger) safesearch.Client {
	if cfg.SafeSearch.APIKey == "" {
		logger.Info("no safesearch credentials configured, image analysis uses pattern fallback")
		return safesearch.NewDisabledClient()
	}

	httpClient := httpx.NewFastHTTPClient(httpx.FastHTTPClientConfig{
		Timeout:   time.Duration(cfg.SafeSearch.TimeoutSeconds) * time.Second,
		UserAgent: "blogora-moderator",
	})
	breaker := httpx.NewCircuitBreaker(
		common.SafeSearchBreakerName,
		common.SafeSearchBreakerTimeout,
		common.SafeSearchBreakerMaxFailures,
	)

	classifier := safesearch.NewVisionClient(safesearch.Config{
		APIKey:   cfg.SafeSearch.APIKey,
		Endpoint: cfg.SafeSearch.Endpoint,
		Timeout:  time.Duration(cfg.SafeSearch.TimeoutSeconds) * time.Second,
	}, httpClient, breaker, logger)

	if cfg.Redis.Host == "" {
		return classifier
	}

	cacheClient, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.WithError(err).Warn("continuing without annotation cache")
		return classifier
	}

	ttl := time.Duration(cfg.SafeSearch.CacheTTLHours) * time.Hour
	return safesearch.NewCachingClient(classifier, cacheClient, ttl, logger)
}
