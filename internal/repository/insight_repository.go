package repository

import (
	"database/sql"

	"github.com/AppleLamps/elon-hub/internal/model"
)

// overviewHistoryCap bounds the sentiment history; only the newest rows
// survive each append.
const overviewHistoryCap = 100

// InsightRepository owns the trend table and the sentiment history.
type InsightRepository struct {
	db *sql.DB
}

func NewInsightRepository(db *sql.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// ReplaceTrends swaps the entire trend set for the new one in a single
// transaction; trends carry no history.
func (r *InsightRepository) ReplaceTrends(trends []model.Trend) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trend`); err != nil {
		return err
	}

	for i := range trends {
		err := tx.QueryRow(`
			INSERT INTO trend(name, score, sentiment)
			VALUES($1, $2, $3)
			RETURNING id, created_at
		`, trends[i].Name, trends[i].Score, trends[i].Sentiment).Scan(&trends[i].ID, &trends[i].CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *InsightRepository) GetTrends() ([]model.Trend, error) {
	rows, err := r.db.Query(`
		SELECT id, name, score, sentiment, created_at
		FROM trend
		ORDER BY score DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []model.Trend
	for rows.Next() {
		var t model.Trend
		if err := rows.Scan(&t.ID, &t.Name, &t.Score, &t.Sentiment, &t.CreatedAt); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trends, nil
}

// AppendOverview inserts one overview row and prunes everything beyond the
// newest hundred.
func (r *InsightRepository) AppendOverview(o *model.SentimentOverview) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO sentiment_overview(overall, score, media_insights)
		VALUES($1, $2, $3)
		RETURNING id, created_at
	`, o.Overall, o.Score, o.MediaInsights).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		DELETE FROM sentiment_overview
		WHERE id NOT IN (
			SELECT id FROM sentiment_overview
			ORDER BY created_at DESC
			LIMIT $1
		)
	`, overviewHistoryCap)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *InsightRepository) GetLatestOverview() (*model.SentimentOverview, error) {
	var o model.SentimentOverview
	err := r.db.QueryRow(`
		SELECT id, overall, score, media_insights, created_at
		FROM sentiment_overview
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&o.ID, &o.Overall, &o.Score, &o.MediaInsights, &o.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &o, nil
}
