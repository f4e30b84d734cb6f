package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/AppleLamps/elon-hub/internal/model"
	"github.com/go-playground/assert/v2"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeArticleReader struct {
	articles []model.Article
	err      error
	calls    int
}

func (f *fakeArticleReader) GetAll() ([]model.Article, error) {
	f.calls++
	return f.articles, f.err
}

type fakeInsightReader struct {
	trends   []model.Trend
	overview *model.SentimentOverview
	err      error
}

func (f *fakeInsightReader) GetTrends() ([]model.Trend, error) {
	return f.trends, f.err
}

func (f *fakeInsightReader) GetLatestOverview() (*model.SentimentOverview, error) {
	return f.overview, f.err
}

func TestGetSnapshotDerivesTimestamps(t *testing.T) {
	newest := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	articles := &fakeArticleReader{
		articles: []model.Article{
			{URL: "https://a", CreatedAt: newest},
			{URL: "https://b", CreatedAt: newest.Add(-time.Hour)},
		},
	}
	insights := &fakeInsightReader{
		trends:   []model.Trend{{Name: "Starship", Score: 9}},
		overview: &model.SentimentOverview{Overall: "positive", Score: 0.7},
	}
	clock := &fakeClock{now: newest}
	svc := NewService(articles, insights, NewMemoryCache(10*time.Second, clock), 30*time.Minute)

	snap, err := svc.GetSnapshot()

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(snap.Articles))
	assert.Equal(t, newest, *snap.LastUpdate)
	assert.Equal(t, newest.Add(30*time.Minute), *snap.NextUpdate)
	assert.Equal(t, "positive", snap.Overview.Overall)
}

func TestGetSnapshotEmptyTable(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := NewService(&fakeArticleReader{}, &fakeInsightReader{}, NewMemoryCache(10*time.Second, clock), 30*time.Minute)

	snap, err := svc.GetSnapshot()

	assert.Equal(t, nil, err)
	assert.Equal(t, (*time.Time)(nil), snap.LastUpdate)
	assert.Equal(t, (*time.Time)(nil), snap.NextUpdate)
	assert.Equal(t, (*model.SentimentOverview)(nil), snap.Overview)
}

func TestGetSnapshotCacheWithinTTL(t *testing.T) {
	newest := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	articles := &fakeArticleReader{
		articles: []model.Article{{URL: "https://a", CreatedAt: newest}},
	}
	insights := &fakeInsightReader{}
	clock := &fakeClock{now: newest}
	svc := NewService(articles, insights, NewMemoryCache(10*time.Second, clock), 30*time.Minute)

	first, err := svc.GetSnapshot()
	assert.Equal(t, nil, err)

	// The table changes underneath, but a read 2s later still serves the
	// cached value untouched.
	articles.articles = append(articles.articles, model.Article{URL: "https://b", CreatedAt: newest.Add(time.Minute)})
	clock.Advance(2 * time.Second)

	second, err := svc.GetSnapshot()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, articles.calls)
	assert.Equal(t, len(first.Articles), len(second.Articles))
	assert.Equal(t, *first.LastUpdate, *second.LastUpdate)
}

func TestGetSnapshotRecomputesAfterTTL(t *testing.T) {
	newest := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	articles := &fakeArticleReader{
		articles: []model.Article{{URL: "https://a", CreatedAt: newest}},
	}
	clock := &fakeClock{now: newest}
	svc := NewService(articles, &fakeInsightReader{}, NewMemoryCache(10*time.Second, clock), 30*time.Minute)

	svc.GetSnapshot()
	clock.Advance(10 * time.Second)
	svc.GetSnapshot()

	assert.Equal(t, 2, articles.calls)
}

func TestGetSnapshotReadError(t *testing.T) {
	articles := &fakeArticleReader{err: errors.New("db down")}
	clock := &fakeClock{now: time.Now()}
	svc := NewService(articles, &fakeInsightReader{}, NewMemoryCache(10*time.Second, clock), 30*time.Minute)

	_, err := svc.GetSnapshot()

	assert.NotEqual(t, nil, err)
}
