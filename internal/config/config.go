package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Entity is one tracked company or person: the social handles and news
// domains its search calls are scoped to, plus a keyword hint for the model.
type Entity struct {
	Name     string
	Handles  []string
	Domains  []string
	Keywords string
}

type Config struct {
	DatabaseURL     string
	RedisURL        string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	CronSecret      string
	FrontendURL     string
	Port            string

	Retention     time.Duration
	CacheTTL      time.Duration
	RefreshPeriod time.Duration
	Lookback      time.Duration

	Entities       []Entity
	GeneralOutlets []string

	// The gateway rejects search calls with more allowed domains than this,
	// so general-outlet calls are chunked to fit.
	MaxDomainsPerCall int
}

// Load reads configuration from the environment. Missing values fall back to
// defaults; the tracked entity set is fixed at build time.
func Load() *Config {
	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		CronSecret:      os.Getenv("CRON_SECRET"),
		FrontendURL:     os.Getenv("FRONTEND_URL"),
		Port:            getEnv("PORT", "8080"),

		Retention:     time.Duration(getEnvInt("RETENTION_HOURS", 48)) * time.Hour,
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 10)) * time.Second,
		RefreshPeriod: time.Duration(getEnvInt("REFRESH_PERIOD_MINUTES", 30)) * time.Minute,
		Lookback:      time.Duration(getEnvInt("LOOKBACK_DAYS", 30)) * 24 * time.Hour,

		Entities:          DefaultEntities(),
		GeneralOutlets:    DefaultOutlets(),
		MaxDomainsPerCall: 5,
	}
}

// DefaultEntities is the fixed set of tracked companies and people.
func DefaultEntities() []Entity {
	return []Entity{
		{
			Name:     "Tesla",
			Handles:  []string{"Tesla", "elonmusk"},
			Domains:  []string{"electrek.co", "insideevs.com", "teslarati.com", "notateslaapp.com"},
			Keywords: "Tesla vehicles, FSD, energy, Optimus, earnings",
		},
		{
			Name:     "SpaceX",
			Handles:  []string{"SpaceX", "elonmusk"},
			Domains:  []string{"spacenews.com", "nasaspaceflight.com", "arstechnica.com", "space.com"},
			Keywords: "Starship, Falcon, Starlink, launches",
		},
		{
			Name:     "xAI",
			Handles:  []string{"xai", "elonmusk"},
			Domains:  []string{"techcrunch.com", "theverge.com", "arstechnica.com"},
			Keywords: "Grok, xAI models, X platform integration",
		},
		{
			Name:     "Neuralink",
			Handles:  []string{"neuralink", "elonmusk"},
			Domains:  []string{"statnews.com", "fiercebiotech.com", "theverge.com"},
			Keywords: "brain implant trials, FDA, patients",
		},
		{
			Name:     "The Boring Company",
			Handles:  []string{"boringcompany", "elonmusk"},
			Domains:  []string{"theverge.com", "constructiondive.com"},
			Keywords: "tunnels, Vegas Loop, Prufrock",
		},
	}
}

// DefaultOutlets are the general-news domain groups searched without an
// entity scope.
func DefaultOutlets() []string {
	return []string{
		"reuters.com", "bloomberg.com", "cnbc.com", "wsj.com", "ft.com",
		"theverge.com", "techcrunch.com", "arstechnica.com", "wired.com", "axios.com",
	}
}

func getEnv(name, defaultValue string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(name string, defaultValue int) int {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer env var, using default", "var", name, "value", v, "default", defaultValue)
		return defaultValue
	}
	return parsed
}
