package snapshot

import (
	"fmt"
	"time"

	"github.com/AppleLamps/elon-hub/internal/model"
)

type ArticleReader interface {
	GetAll() ([]model.Article, error)
}

type InsightReader interface {
	GetTrends() ([]model.Trend, error)
	GetLatestOverview() (*model.SentimentOverview, error)
}

// Service assembles the dashboard read model: the full retention window of
// articles newest first, trends by score, the latest overview, and the
// derived update timestamps.
type Service struct {
	articles ArticleReader
	insights InsightReader
	cache    Cache
	period   time.Duration
}

func NewService(articles ArticleReader, insights InsightReader, cache Cache, period time.Duration) *Service {
	return &Service{
		articles: articles,
		insights: insights,
		cache:    cache,
		period:   period,
	}
}

func (s *Service) GetSnapshot() (model.Snapshot, error) {
	if snap, ok := s.cache.Get(); ok {
		return snap, nil
	}

	articles, err := s.articles.GetAll()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading articles: %w", err)
	}

	trends, err := s.insights.GetTrends()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading trends: %w", err)
	}

	overview, err := s.insights.GetLatestOverview()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading sentiment overview: %w", err)
	}

	snap := model.Snapshot{
		Articles: articles,
		Trends:   trends,
		Overview: overview,
	}

	// Articles come back newest first, so the head carries last_update.
	// next_update is a display hint only; nothing schedules off it here.
	if len(articles) > 0 {
		last := articles[0].CreatedAt
		next := last.Add(s.period)
		snap.LastUpdate = &last
		snap.NextUpdate = &next
	}

	s.cache.Set(snap)
	return snap, nil
}
