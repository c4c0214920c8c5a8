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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/moodmate/backend/internal/config"
	"github.com/moodmate/backend/internal/handler"
	"github.com/moodmate/backend/internal/model/persona"
	aiservice "github.com/moodmate/backend/internal/service/ai"
	"github.com/moodmate/backend/internal/service/analytics"
	chatservice "github.com/moodmate/backend/internal/service/chat"
	"github.com/moodmate/backend/internal/service/memory"
	"github.com/moodmate/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	sessions := session.NewStore(logger)
	agg := analytics.NewAggregator(cfg.Chat.TopKeywords)
	mem := memory.NewStore(cfg.Chat.MemoryPath, logger)

	var aiSvc *aiservice.Service
	if cfg.AI.Enabled() {
		aiSvc, err = aiservice.NewService(ctx, cfg.AI, logger)
		if err != nil {
			logger.Warn("failed to initialize completion service, continuing with fallback replies", zap.Error(err))
			aiSvc = nil
		} else {
			logger.Info("completion service initialized", zap.String("model", cfg.AI.Model))
		}
	} else {
		logger.Info("ark credentials not configured, chat will use fallback replies")
	}

	var completer chatservice.Completer
	if aiSvc != nil {
		completer = aiSvc
	}

	orch := chatservice.NewOrchestrator(sessions, agg, mem, completer, persona.Default(), chatservice.Config{
		MoodSource:   cfg.Chat.MoodSource,
		HistoryLimit: cfg.Chat.HistoryLimit,
	}, logger)

	sessions.StartSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.TTL)

	router := handler.NewRouter(orch, sessions, agg, aiSvc, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("mood mate backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
