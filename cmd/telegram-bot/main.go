package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-fitness-coach/internal/api"
	"ai-fitness-coach/internal/app"
	"ai-fitness-coach/internal/auth"
	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/logging"
	"ai-fitness-coach/internal/telegram"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// 2. Initialize Infrastructure (database, profile storage, LLM)
	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	// 3. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, services.Planner, services.KV, services.Metrics, logger)
	if err != nil {
		logger.Fatal("failed to initialize telegram bot", zap.Error(err))
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", api.Health).Methods(http.MethodGet)
	bot.RegisterHandlers(r)

	// 4. The HTTP API is optional and needs a signing secret.
	var handler http.Handler = r
	if cfg.APIJWTSecret != "" {
		issuer, err := auth.NewIssuer(cfg.APIJWTSecret, auth.DefaultTTL)
		if err != nil {
			logger.Fatal("invalid API_JWT_SECRET", zap.Error(err))
		}
		server := api.NewServer(services.KV, services.Planner, issuer, cfg.CORSAllowedOrigins, logger)
		server.Register(r)
		handler = server.Wrap(r)
		logger.Info("http api enabled", zap.Strings("cors_origins", cfg.CORSAllowedOrigins))
	}

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server exiting")
}
