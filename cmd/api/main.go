package main

import (
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/AppleLamps/elon-hub/db"
	"github.com/AppleLamps/elon-hub/internal/config"
	"github.com/AppleLamps/elon-hub/internal/handler"
	"github.com/AppleLamps/elon-hub/internal/ingest"
	"github.com/AppleLamps/elon-hub/internal/repository"
	"github.com/AppleLamps/elon-hub/internal/snapshot"
	"github.com/AppleLamps/elon-hub/pkg/llm"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

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

	articleRepo := repository.NewArticleRepository(db.DB)
	insightRepo := repository.NewInsightRepository(db.DB)
	runRepo := repository.NewRunRepository(db.DB)

	gateway, err := newGateway(cfg)
	if err != nil {
		log.Fatalf("error configuring model gateway: %v", err)
	}

	var cache snapshot.Cache
	if cfg.RedisURL != "" {
		if err := db.ConnectRedis(cfg.RedisURL); err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer db.CloseRedis()
		cache = snapshot.NewRedisCache(db.Redis, "elonhub:snapshot", cfg.CacheTTL)
		slog.Info("snapshot cache backed by Redis")
	} else {
		cache = snapshot.NewMemoryCache(cfg.CacheTTL, snapshot.SystemClock())
	}

	pipeline := ingest.New(gateway, store, runRepo, cfg)
	snapshots := snapshot.NewService(articleRepo, insightRepo, cache, cfg.RefreshPeriod)

	newsHandler := handler.NewNewsHandler(snapshots, articleRepo)
	refreshHandler := handler.NewRefreshHandler(pipeline, store, runRepo, cfg.CronSecret)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/api/news", newsHandler.GetNews)
	r.POST("/api/refresh-news", refreshHandler.TriggerRefresh)
	r.POST("/api/fetch-news", refreshHandler.FetchNews)
	r.POST("/api/init-db", refreshHandler.InitDB)
	r.GET("/api/runs", refreshHandler.GetRuns)
	r.GET("/health", newsHandler.GetHealth)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

var errNoGatewayKey = errors.New("no model API key configured (set ANTHROPIC_API_KEY or OPENAI_API_KEY)")

func newGateway(cfg *config.Config) (llm.Gateway, error) {
	if cfg.AnthropicAPIKey != "" {
		return llm.NewAnthropicGateway(cfg.AnthropicAPIKey), nil
	}
	if cfg.OpenAIAPIKey != "" {
		return llm.NewOpenAIGateway(cfg.OpenAIAPIKey), nil
	}
	return nil, errNoGatewayKey
}
