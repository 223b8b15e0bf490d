package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"TokenSentinel/internal/authority"
	"TokenSentinel/internal/bot"
	"TokenSentinel/internal/config"
	"TokenSentinel/internal/history"
	"TokenSentinel/internal/llm"
	"TokenSentinel/internal/logger"
	"TokenSentinel/internal/pipeline"
	"TokenSentinel/internal/prompt"
	"TokenSentinel/internal/scheduler"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.L().Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.L().Fatalf("config validation: %v", err)
	}

	logger.Setup(cfg.Log.Level, cfg.Log.File)
	log := logger.WithComponent("main")
	log.Info("TokenSentinel starting")

	// Verification layer: candidate extraction happens inside the client.
	cache := authority.NewCache(cfg.Authority.CacheTTL.Std())
	verifier := authority.NewClient(cfg.Authority.BaseURL, cache, authority.RetryPolicy{
		MaxRetries:        cfg.Authority.MaxRetries,
		Delay:             cfg.Authority.RetryDelay.Std(),
		PerAttemptTimeout: cfg.Authority.PerAttemptTimeout.Std(),
	})

	llmClient := llm.NewClient(llm.Config{
		Provider:     cfg.LLM.Provider,
		OllamaURL:    cfg.LLM.OllamaURL,
		OllamaModel:  cfg.LLM.OllamaModel,
		OpenAIAPIKey: cfg.LLM.OpenAIAPIKey,
		OpenAIModel:  cfg.LLM.OpenAIModel,
	})
	log.Infof("llm provider: %s model: %s", llmClient.Provider(), llmClient.Model())

	localizer := prompt.NewLocalizer(llmClient, llmClient.Provider(), llmClient.Model())

	var store history.Store
	if cfg.Database.SQLitePath != "" {
		sqlStore, err := history.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("sqlite store unavailable, history disabled")
			store = history.NoopStore{}
		} else {
			store = sqlStore
			defer sqlStore.Close()
		}
	} else {
		store = history.NoopStore{}
	}

	pipe := pipeline.New(verifier, llmClient, localizer, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(cache, store, pipe.Stats(), cfg.Database.HistoryMaxAge.Std())
	if err := sched.RegisterAll(cfg.Schedule.SweepCron, cfg.Schedule.DailyCron); err != nil {
		logger.L().Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	api := bot.NewAPI(cfg.Telegram.BotToken, cfg.Proxy)
	b := bot.New(api, pipe, store, cfg.Telegram.Signature)

	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	log.Info("telegram polling started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Warn("polling did not stop in time")
	}
	log.Info("TokenSentinel stopped")
}
