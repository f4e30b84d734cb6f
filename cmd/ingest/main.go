package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/AppleLamps/elon-hub/db"
	"github.com/AppleLamps/elon-hub/internal/config"
	"github.com/AppleLamps/elon-hub/internal/ingest"
	"github.com/AppleLamps/elon-hub/internal/repository"
	"github.com/AppleLamps/elon-hub/pkg/llm"

	"github.com/joho/godotenv"
)

// One-shot ingestion cycle, invoked by the external cron once per refresh
// period. The cron, not this binary, is responsible for never overlapping
// two cycles.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db.DB, cfg.Retention)
	if err := store.EnsureSchema(); err != nil {
		log.Fatalf("error initializing schema: %v", err)
	}

	var gateway llm.Gateway
	switch {
	case cfg.AnthropicAPIKey != "":
		gateway = llm.NewAnthropicGateway(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		gateway = llm.NewOpenAIGateway(cfg.OpenAIAPIKey)
	default:
		slog.Error("no model API key configured")
		os.Exit(1)
	}

	pipeline := ingest.New(gateway, store, repository.NewRunRepository(db.DB), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := pipeline.Run(ctx, 0)
	if err != nil {
		slog.Error("ingestion cycle failed", "error", err)
		os.Exit(1)
	}

	slog.Info("ingestion cycle complete",
		"posts_collected", stats.TotalPostsCollected,
		"unique_posts", stats.UniquePosts,
		"articles_processed", stats.ArticlesProcessed,
		"articles_cleaned_up", stats.ArticlesCleanedUp,
		"trends_identified", stats.TrendsIdentified,
	)
}
