package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/AppleLamps/elon-hub/internal/model"
	"github.com/go-playground/assert/v2"
)

type fakeArticleWriter struct {
	calls      *[]string
	deleted    int
	deleteErr  error
	upsertErr  map[string]error
	cutoffSeen time.Time
}

func (f *fakeArticleWriter) DeleteOlderThan(cutoff time.Time) (int, error) {
	*f.calls = append(*f.calls, "cleanup")
	f.cutoffSeen = cutoff
	return f.deleted, f.deleteErr
}

func (f *fakeArticleWriter) Upsert(a *model.Article) error {
	*f.calls = append(*f.calls, "upsert:"+a.URL)
	if err, ok := f.upsertErr[a.URL]; ok {
		return err
	}
	return nil
}

type fakeInsightWriter struct {
	calls       *[]string
	trendsErr   error
	overviewErr error
	trendsSeen  []model.Trend
}

func (f *fakeInsightWriter) ReplaceTrends(trends []model.Trend) error {
	*f.calls = append(*f.calls, "trends")
	f.trendsSeen = trends
	return f.trendsErr
}

func (f *fakeInsightWriter) AppendOverview(o *model.SentimentOverview) error {
	*f.calls = append(*f.calls, "overview")
	return f.overviewErr
}

func newTestStore(articles *fakeArticleWriter, insights *fakeInsightWriter, now time.Time) *Store {
	return &Store{
		articles:  articles,
		insights:  insights,
		retention: 48 * time.Hour,
		now:       func() time.Time { return now },
	}
}

func TestSaveCycleStepOrder(t *testing.T) {
	var calls []string
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	articles := &fakeArticleWriter{calls: &calls, deleted: 3}
	insights := &fakeInsightWriter{calls: &calls}
	store := newTestStore(articles, insights, now)

	res, err := store.SaveCycle(
		[]model.Article{{URL: "https://a"}, {URL: "https://b"}},
		[]model.Trend{{Name: "Starship"}},
		model.SentimentOverview{Overall: "neutral", Score: 0.5},
	)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, res.NewArticles)
	assert.Equal(t, 3, res.Deleted)
	assert.Equal(t, []string{"cleanup", "upsert:https://a", "upsert:https://b", "trends", "overview"}, calls)
	assert.Equal(t, now.Add(-48*time.Hour), articles.cutoffSeen)
}

func TestSaveCycleUpsertFailureSkipsRow(t *testing.T) {
	var calls []string
	articles := &fakeArticleWriter{
		calls:     &calls,
		upsertErr: map[string]error{"https://bad": errors.New("constraint violation")},
	}
	insights := &fakeInsightWriter{calls: &calls}
	store := newTestStore(articles, insights, time.Now())

	res, err := store.SaveCycle(
		[]model.Article{{URL: "https://a"}, {URL: "https://bad"}, {URL: "https://b"}},
		nil,
		model.SentimentOverview{},
	)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, res.NewArticles)
	// Remaining upserts and the later steps still ran.
	assert.Equal(t, "upsert:https://b", calls[3])
	assert.Equal(t, "overview", calls[len(calls)-1])
}

func TestSaveCycleCleanupFailureAborts(t *testing.T) {
	var calls []string
	articles := &fakeArticleWriter{calls: &calls, deleteErr: errors.New("db down")}
	insights := &fakeInsightWriter{calls: &calls}
	store := newTestStore(articles, insights, time.Now())

	_, err := store.SaveCycle([]model.Article{{URL: "https://a"}}, nil, model.SentimentOverview{})

	assert.NotEqual(t, nil, err)
	assert.Equal(t, []string{"cleanup"}, calls)
}

func TestSaveCycleTrendFailureSkipsOverview(t *testing.T) {
	var calls []string
	articles := &fakeArticleWriter{calls: &calls}
	insights := &fakeInsightWriter{calls: &calls, trendsErr: errors.New("db down")}
	store := newTestStore(articles, insights, time.Now())

	res, err := store.SaveCycle([]model.Article{{URL: "https://a"}}, nil, model.SentimentOverview{})

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 1, res.NewArticles)
	assert.Equal(t, "trends", calls[len(calls)-1])
}
