package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/stemsi/gatetrack/internal/config"
	"github.com/stemsi/gatetrack/internal/logger"
	"github.com/stemsi/gatetrack/internal/repository"
	"github.com/stemsi/gatetrack/internal/service"
	"github.com/stemsi/gatetrack/internal/storage"
	"github.com/stemsi/gatetrack/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Debug().
		Str("store_driver", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting GATE practice tracker")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx := context.Background()

	// ─── Open Key-Value Store ──────────────────────────────────────────
	var (
		store storage.KeyValueStore
		err   error
	)
	switch cfg.StoreDriver {
	case "redis":
		store, err = storage.NewRedisStore(ctx, cfg.RedisURL, log)
	case "memory":
		store = storage.NewMemoryStore()
	default:
		store, err = storage.OpenBolt(cfg.BoltPath, log)
	}
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open practice store")
	}
	defer store.Close()

	// ─── Initialize Repository and Services ────────────────────────────
	sessionRepo := repository.NewSessionRepository(store, log)
	practiceService := service.NewPracticeService(sessionRepo, log)
	verificationService := service.NewVerificationService(sessionRepo, log)

	app := &app{
		cfg:          cfg,
		log:          log,
		practice:     practiceService,
		verification: verificationService,
		in:           bufio.NewScanner(os.Stdin),
		out:          os.Stdout,
	}

	if err := app.run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
