package repository

import (
	"database/sql"

	"github.com/AppleLamps/elon-hub/internal/model"
)

// RunRepository keeps the per-cycle audit trail.
type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Insert(rec *model.RunRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO ingest_run(id, started_at, finished_at, status, error, posts_collected, unique_posts, articles_processed, articles_cleaned_up, trends_identified)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, rec.ID, rec.StartedAt, rec.FinishedAt, rec.Status, rec.Error, rec.PostsCollected,
		rec.UniquePosts, rec.ArticlesProcessed, rec.ArticlesCleanedUp, rec.TrendsIdentified)
	return err
}

func (r *RunRepository) GetRecent(limit int) ([]model.RunRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, started_at, finished_at, status, error, posts_collected, unique_posts, articles_processed, articles_cleaned_up, trends_identified
		FROM ingest_run
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		err := rows.Scan(&rec.ID, &rec.StartedAt, &rec.FinishedAt, &rec.Status, &rec.Error,
			&rec.PostsCollected, &rec.UniquePosts, &rec.ArticlesProcessed, &rec.ArticlesCleanedUp, &rec.TrendsIdentified)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
