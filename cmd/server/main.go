package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"daily-digest/internal/cache"
	"daily-digest/internal/clock"
	"daily-digest/internal/config"
	"daily-digest/internal/content"
	"daily-digest/internal/daily"
	"daily-digest/internal/gateway"
	"daily-digest/internal/history"
	"daily-digest/internal/llm"
	"daily-digest/internal/scheduler"
	"daily-digest/internal/search"
	"daily-digest/internal/server"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	cacheStore, err := cache.NewStore(cfg.CacheFilePath)
	if err != nil {
		log.Fatalf("failed to init cache store: %v", err)
	}
	histStore, err := history.NewStore(cfg.HistoryFilePath)
	if err != nil {
		log.Fatalf("failed to init history store: %v", err)
	}

	retry := gateway.NewRetryer(cfg.RetryAttempts, cfg.RetryBaseDelay, cfg.RetryMaxDelay)
	engine := content.NewEngine(
		search.NewClient(cfg.SerpAPIKey),
		search.NewMovieSource(),
		llmClient,
		retry,
		cfg.FreshnessRounds,
	)

	orch := daily.NewOrchestrator(clock.System{}, engine, cacheStore, histStore,
		cfg.BirthdaysFilePath, cfg.AnniversariesFilePath)

	if cfg.PrewarmCron != "" {
		sched := scheduler.New(func(ctx context.Context) {
			_ = orch.Daily(ctx)
		})
		if err := sched.Start(cfg.PrewarmCron); err != nil {
			log.Fatalf("failed to start prewarm scheduler: %v", err)
		}
		defer sched.Stop()
	}

	srv := server.New(orch, cfg.AppToken, cfg.Port)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("shutting down")
		if err := srv.Stop(); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped: %v", err)
	}
}
