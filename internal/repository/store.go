package repository

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/AppleLamps/elon-hub/internal/model"
)

type SaveResult struct {
	NewArticles int
	Deleted     int
}

type articleWriter interface {
	DeleteOlderThan(cutoff time.Time) (int, error)
	Upsert(a *model.Article) error
}

type insightWriter interface {
	ReplaceTrends(trends []model.Trend) error
	AppendOverview(o *model.SentimentOverview) error
}

// Store runs the write side of one ingestion cycle. The step order is fixed:
// retention cleanup, article upserts, trend replace, sentiment append. Each
// step is durable before the next begins; a failed individual upsert is
// logged and skipped, a failure in any other step aborts the rest.
type Store struct {
	db        *sql.DB
	articles  articleWriter
	insights  insightWriter
	retention time.Duration
	now       func() time.Time
}

func NewStore(db *sql.DB, retention time.Duration) *Store {
	return &Store{
		db:        db,
		articles:  NewArticleRepository(db),
		insights:  NewInsightRepository(db),
		retention: retention,
		now:       time.Now,
	}
}

func (s *Store) SaveCycle(articles []model.Article, trends []model.Trend, overview model.SentimentOverview) (SaveResult, error) {
	// Cleanup runs first so an expired article is not resurrected by this
	// cycle's upsert of the same url.
	deleted, err := s.articles.DeleteOlderThan(s.now().Add(-s.retention))
	if err != nil {
		return SaveResult{}, fmt.Errorf("cleaning up expired articles: %w", err)
	}

	saved := 0
	for i := range articles {
		if err := s.articles.Upsert(&articles[i]); err != nil {
			slog.Error("error upserting article", "url", articles[i].URL, "error", err)
			continue
		}
		saved++
	}

	if err := s.insights.ReplaceTrends(trends); err != nil {
		return SaveResult{NewArticles: saved, Deleted: deleted}, fmt.Errorf("replacing trends: %w", err)
	}

	if err := s.insights.AppendOverview(&overview); err != nil {
		return SaveResult{NewArticles: saved, Deleted: deleted}, fmt.Errorf("appending sentiment overview: %w", err)
	}

	return SaveResult{NewArticles: saved, Deleted: deleted}, nil
}

// EnsureSchema creates the tables and indexes if absent; safe to run on
// every boot.
func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS article (
			id               BIGSERIAL PRIMARY KEY,
			url              TEXT NOT NULL UNIQUE,
			title            TEXT NOT NULL DEFAULT '',
			image_url        TEXT NOT NULL DEFAULT '',
			video_url        TEXT NOT NULL DEFAULT '',
			media_analysis   TEXT NOT NULL DEFAULT '',
			media_sentiment  TEXT NOT NULL DEFAULT '',
			sentiment        TEXT NOT NULL DEFAULT 'neutral',
			company          TEXT NOT NULL DEFAULT 'General',
			source_timestamp TEXT NOT NULL DEFAULT '',
			snippet          TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_article_created_at ON article(created_at DESC);

		CREATE TABLE IF NOT EXISTS trend (
			id         BIGSERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			score      DOUBLE PRECISION NOT NULL DEFAULT 0,
			sentiment  TEXT NOT NULL DEFAULT 'neutral',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS sentiment_overview (
			id             BIGSERIAL PRIMARY KEY,
			overall        TEXT NOT NULL DEFAULT 'neutral',
			score          DOUBLE PRECISION NOT NULL DEFAULT 0.5,
			media_insights TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_sentiment_overview_created_at ON sentiment_overview(created_at DESC);

		CREATE TABLE IF NOT EXISTS ingest_run (
			id                  UUID PRIMARY KEY,
			started_at          TIMESTAMPTZ NOT NULL,
			finished_at         TIMESTAMPTZ NOT NULL,
			status              TEXT NOT NULL,
			error               TEXT NOT NULL DEFAULT '',
			posts_collected     INT NOT NULL DEFAULT 0,
			unique_posts        INT NOT NULL DEFAULT 0,
			articles_processed  INT NOT NULL DEFAULT 0,
			articles_cleaned_up INT NOT NULL DEFAULT 0,
			trends_identified   INT NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_ingest_run_started_at ON ingest_run(started_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}
