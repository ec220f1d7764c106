// Command worker consumes the task queue and performs every durable write:
// application, chat, and message inserts with their counter updates, plus
// search indexing. It shares Redis and the relational store with the API
// server and can be scaled independently.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-chat-system/internal/config"
	"github.com/tbourn/go-chat-system/internal/jobs"
	"github.com/tbourn/go-chat-system/internal/observability"
	"github.com/tbourn/go-chat-system/internal/repo"
	"github.com/tbourn/go-chat-system/internal/search"
	"github.com/tbourn/go-chat-system/internal/seq"
	"github.com/tbourn/go-chat-system/internal/sysutil"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Fatal().Err(err).Msg("gorm tracing setup failed")
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connection failed")
	}
	defer rdb.Close()

	searchClient, err := search.New(cfg.Search)
	if err != nil {
		log.Fatal().Err(err).Msg("elasticsearch client setup failed")
	}

	processor := jobs.NewProcessor(db, seq.NewAllocator(rdb), searchClient)
	srv := jobs.NewServer(cfg.Redis, cfg.Queue)

	log.Info().
		Int("concurrency", cfg.Queue.Concurrency).
		Int("max_retry", cfg.Queue.MaxRetry).
		Str("version", version).
		Msg("worker starting")

	// Run blocks until SIGINT/SIGTERM, then drains in-flight tasks.
	if err := srv.Run(processor.Mux()); err != nil {
		log.Fatal().Err(err).Msg("worker failed")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
	log.Info().Msg("bye")
}
