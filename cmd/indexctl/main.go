// Command indexctl provisions the Elasticsearch message index: it drops any
// existing index and recreates it with the message analyzer and field
// mappings. Run it once before first deployment and after any mapping
// change; recreation discards the projection, which the worker repopulates
// as new messages arrive.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-chat-system/internal/config"
	"github.com/tbourn/go-chat-system/internal/search"
	"github.com/tbourn/go-chat-system/internal/sysutil"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetLogLevel(cfg.LogLevel)

	client, err := search.New(cfg.Search)
	if err != nil {
		log.Fatal().Err(err).Msg("elasticsearch client setup failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.EnsureIndex(ctx); err != nil {
		log.Fatal().Err(err).Str("index", cfg.Search.Index).Msg("index provisioning failed")
	}
	log.Info().Str("index", cfg.Search.Index).Msg("index ready")
}
