package repository

import (
	"database/sql"
	"time"

	"github.com/AppleLamps/elon-hub/internal/model"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// DeleteOlderThan removes articles whose first-seen time predates the cutoff
// and reports how many went.
func (r *ArticleRepository) DeleteOlderThan(cutoff time.Time) (int, error) {
	res, err := r.db.Exec(`
		DELETE FROM article WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Upsert inserts the article or, when the url already exists, updates every
// mutable field in place. created_at and id are never touched on conflict, so
// retention keeps counting from the first ingestion.
func (r *ArticleRepository) Upsert(a *model.Article) error {
	return r.db.QueryRow(`
		INSERT INTO article(url, title, image_url, video_url, media_analysis, media_sentiment, sentiment, company, source_timestamp, snippet)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			image_url = EXCLUDED.image_url,
			video_url = EXCLUDED.video_url,
			media_analysis = EXCLUDED.media_analysis,
			media_sentiment = EXCLUDED.media_sentiment,
			sentiment = EXCLUDED.sentiment,
			company = EXCLUDED.company,
			source_timestamp = EXCLUDED.source_timestamp,
			snippet = EXCLUDED.snippet
		RETURNING id, created_at
	`, a.URL, a.Title, a.ImageURL, a.VideoURL, a.MediaAnalysis, a.MediaSentiment,
		a.Sentiment, a.Company, a.Timestamp, a.Snippet).Scan(&a.ID, &a.CreatedAt)
}

func (r *ArticleRepository) GetAll() ([]model.Article, error) {
	rows, err := r.db.Query(`
		SELECT id, url, title, image_url, video_url, media_analysis, media_sentiment, sentiment, company, source_timestamp, snippet, created_at
		FROM article
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		err := rows.Scan(&a.ID, &a.URL, &a.Title, &a.ImageURL, &a.VideoURL, &a.MediaAnalysis,
			&a.MediaSentiment, &a.Sentiment, &a.Company, &a.Timestamp, &a.Snippet, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *ArticleRepository) Count() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM article`).Scan(&total)
	return total, err
}
