package ingest

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AppleLamps/elon-hub/internal/config"
	"github.com/AppleLamps/elon-hub/internal/model"
	"github.com/AppleLamps/elon-hub/internal/repository"
	"github.com/AppleLamps/elon-hub/pkg/llm"
	"github.com/go-playground/assert/v2"
)

func TestDedupeByURL(t *testing.T) {
	posts := []llm.Post{
		{URL: "https://a", Title: "first a"},
		{URL: "https://b", Title: "b"},
		{URL: "https://a", Title: "second a"},
		{URL: "", Title: "no url"},
	}

	out := DedupeByURL(posts)

	assert.Equal(t, 2, len(out))
	assert.Equal(t, "first a", out[0].Title)
	assert.Equal(t, "b", out[1].Title)
}

func TestDedupeByURLEmpty(t *testing.T) {
	out := DedupeByURL(nil)
	assert.Equal(t, 0, len(out))
}

func TestChunkDomains(t *testing.T) {
	domains := []string{"a.com", "b.com", "c.com", "d.com", "e.com", "f.com", "g.com"}

	chunks := chunkDomains(domains, 5)

	assert.Equal(t, 2, len(chunks))
	assert.Equal(t, 5, len(chunks[0]))
	assert.Equal(t, 2, len(chunks[1]))
	assert.Equal(t, "f.com", chunks[1][0])
}

// fakeGateway answers search calls with canned reports keyed by a substring
// of the allowed domains, and fails where told to.
type fakeGateway struct {
	searchByDomain map[string]string
	failDomains    map[string]bool
	analysisReply  string
	analysisErr    error
	analysisInput  string
	searchCalls    atomic.Int32
}

func (g *fakeGateway) Search(ctx context.Context, req llm.SearchRequest) (string, error) {
	g.searchCalls.Add(1)
	key := strings.Join(req.AllowedDomains, ",")
	if g.failDomains[key] {
		return "", errors.New("gateway timeout")
	}
	return g.searchByDomain[key], nil
}

func (g *fakeGateway) Complete(ctx context.Context, system, user string) (string, error) {
	g.analysisInput = user
	if g.analysisErr != nil {
		return "", g.analysisErr
	}
	return g.analysisReply, nil
}

type fakeSaver struct {
	articles []model.Article
	trends   []model.Trend
	overview model.SentimentOverview
	result   repository.SaveResult
	err      error
}

func (f *fakeSaver) SaveCycle(articles []model.Article, trends []model.Trend, overview model.SentimentOverview) (repository.SaveResult, error) {
	f.articles = articles
	f.trends = trends
	f.overview = overview
	f.result = repository.SaveResult{NewArticles: len(articles), Deleted: 1}
	return f.result, f.err
}

type fakeRuns struct {
	records []model.RunRecord
}

func (f *fakeRuns) Insert(rec *model.RunRecord) error {
	f.records = append(f.records, *rec)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Entities: []config.Entity{
			{
				Name:     "Tesla",
				Handles:  []string{"Tesla"},
				Domains:  []string{"electrek.co"},
				Keywords: "Tesla",
			},
		},
		GeneralOutlets:    []string{"reuters.com", "cnbc.com"},
		MaxDomainsPerCall: 5,
		Lookback:          30 * 24 * time.Hour,
	}
}

func report(posts string) string {
	return "```json\n{\"posts\":[" + posts + "]}\n```"
}

func TestRunTagsCompanyAndDedupes(t *testing.T) {
	gw := &fakeGateway{
		searchByDomain: map[string]string{
			// Social call: model mislabels the company, pipeline config wins.
			"x.com,twitter.com": report(`{"title":"post","url":"https://x.com/1","company":"SpaceX","sentiment":"positive"}`),
			// News call returns a duplicate of the social url plus a new one.
			"electrek.co": report(`{"title":"dup","url":"https://x.com/1"},{"title":"story","url":"https://electrek.co/1"}`),
			// General call: model label kept, empty label becomes General.
			"reuters.com,cnbc.com": report(`{"title":"g1","url":"https://reuters.com/1","company":"Tesla"},{"title":"g2","url":"https://cnbc.com/1"}`),
		},
		analysisReply: "```json\n{\"trends\":[{\"name\":\"FSD\",\"score\":8,\"sentiment\":\"positive\"}],\"sentiment_overview\":{\"overall\":\"positive\",\"score\":0.7}}\n```",
	}
	saver := &fakeSaver{}
	runs := &fakeRuns{}
	p := New(gw, saver, runs, testConfig())

	stats, err := p.Run(context.Background(), 0)

	assert.Equal(t, nil, err)
	assert.Equal(t, 5, stats.TotalPostsCollected)
	assert.Equal(t, 4, stats.UniquePosts)
	assert.Equal(t, 4, stats.ArticlesProcessed)
	assert.Equal(t, 1, stats.TrendsIdentified)
	assert.Equal(t, 3, int(gw.searchCalls.Load()))

	byURL := make(map[string]model.Article)
	for _, a := range saver.articles {
		byURL[a.URL] = a
	}
	assert.Equal(t, "Tesla", byURL["https://x.com/1"].Company)
	assert.Equal(t, "Tesla", byURL["https://electrek.co/1"].Company)
	assert.Equal(t, "Tesla", byURL["https://reuters.com/1"].Company)
	assert.Equal(t, "General", byURL["https://cnbc.com/1"].Company)

	assert.Equal(t, 1, len(saver.trends))
	assert.Equal(t, "FSD", saver.trends[0].Name)
	assert.Equal(t, "positive", saver.overview.Overall)

	assert.Equal(t, 1, len(runs.records))
	assert.Equal(t, model.RunStatusOK, runs.records[0].Status)
	assert.Equal(t, 4, runs.records[0].UniquePosts)
}

func TestRunFailedCallDegradesToEmpty(t *testing.T) {
	gw := &fakeGateway{
		searchByDomain: map[string]string{
			"electrek.co":          report(`{"title":"story","url":"https://electrek.co/1"}`),
			"reuters.com,cnbc.com": report(``),
		},
		failDomains:   map[string]bool{"x.com,twitter.com": true},
		analysisReply: "garbage",
	}
	saver := &fakeSaver{}
	p := New(gw, saver, &fakeRuns{}, testConfig())

	stats, err := p.Run(context.Background(), 0)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, stats.UniquePosts)
	// Unparseable analysis degrades to no trends and a neutral overview.
	assert.Equal(t, 0, stats.TrendsIdentified)
	assert.Equal(t, "neutral", saver.overview.Overall)
	assert.Equal(t, 0.5, saver.overview.Score)
}

func TestRunSaveErrorRecordedAndReturned(t *testing.T) {
	gw := &fakeGateway{
		searchByDomain: map[string]string{
			"x.com,twitter.com":    report(`{"title":"post","url":"https://x.com/1"}`),
			"electrek.co":          report(``),
			"reuters.com,cnbc.com": report(``),
		},
		analysisReply: "garbage",
	}
	saver := &fakeSaver{err: errors.New("db down")}
	runs := &fakeRuns{}
	p := New(gw, saver, runs, testConfig())

	_, err := p.Run(context.Background(), 0)

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 1, len(runs.records))
	assert.Equal(t, model.RunStatusError, runs.records[0].Status)
	assert.NotEqual(t, "", runs.records[0].Error)
}

func TestAnalyzeSamplesFirstFifty(t *testing.T) {
	gw := &fakeGateway{analysisReply: "garbage"}
	p := New(gw, &fakeSaver{}, nil, testConfig())

	posts := make([]llm.Post, 60)
	for i := range posts {
		posts[i] = llm.Post{Title: "t", URL: "https://a", Company: "Tesla", Sentiment: "neutral"}
	}

	p.analyze(context.Background(), posts)

	lines := strings.Split(gw.analysisInput, "\n")
	assert.Equal(t, 50, len(lines))
	assert.Equal(t, "[Tesla] t (neutral)", lines[0])
}
