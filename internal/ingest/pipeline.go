package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AppleLamps/elon-hub/internal/config"
	"github.com/AppleLamps/elon-hub/internal/model"
	"github.com/AppleLamps/elon-hub/internal/repository"
	"github.com/AppleLamps/elon-hub/pkg/llm"
	"github.com/google/uuid"
)

// analysisSampleSize bounds how many deduplicated posts feed the final
// trend/sentiment pass, in arrival order.
const analysisSampleSize = 50

var socialDomains = []string{"x.com", "twitter.com"}

// Stats summarizes one ingestion cycle. Posts/Trends/Overview carry the
// collected data for the synchronous fetch endpoint; Citations are the
// deduplicated source urls.
type Stats struct {
	TotalPostsCollected int
	UniquePosts         int
	ArticlesProcessed   int
	ArticlesCleanedUp   int
	TrendsIdentified    int

	Posts     []llm.Post
	Trends    []llm.TrendItem
	Overview  llm.Overview
	Citations []string
}

type Saver interface {
	SaveCycle(articles []model.Article, trends []model.Trend, overview model.SentimentOverview) (repository.SaveResult, error)
}

type RunRecorder interface {
	Insert(rec *model.RunRecord) error
}

// Pipeline gathers posts from the model gateway for every tracked entity,
// deduplicates them, runs one analysis pass and hands the batch to the store.
type Pipeline struct {
	gateway  llm.Gateway
	store    Saver
	runs     RunRecorder
	entities []config.Entity
	outlets  []string

	maxDomainsPerCall int
	lookback          time.Duration
}

func New(gateway llm.Gateway, store Saver, runs RunRecorder, cfg *config.Config) *Pipeline {
	return &Pipeline{
		gateway:           gateway,
		store:             store,
		runs:              runs,
		entities:          cfg.Entities,
		outlets:           cfg.GeneralOutlets,
		maxDomainsPerCall: cfg.MaxDomainsPerCall,
		lookback:          cfg.Lookback,
	}
}

// searchCall is one outbound gateway call. A non-empty company overrides
// whatever label the model assigned: pipeline config is ground truth for
// entity-scoped calls.
type searchCall struct {
	company string
	req     llm.SearchRequest
}

// Run executes one complete ingestion cycle, writes the audit row and
// returns the cycle stats. Lookback overrides the configured window when
// positive (the manual fetch endpoint passes hours). Errors never panic past
// this boundary; a failed save is returned as a structured error.
func (p *Pipeline) Run(ctx context.Context, lookback time.Duration) (Stats, error) {
	started := time.Now().UTC()

	if lookback <= 0 {
		lookback = p.lookback
	}

	stats, err := p.run(ctx, lookback)

	rec := model.RunRecord{
		ID:                uuid.NewString(),
		StartedAt:         started,
		FinishedAt:        time.Now().UTC(),
		Status:            model.RunStatusOK,
		PostsCollected:    stats.TotalPostsCollected,
		UniquePosts:       stats.UniquePosts,
		ArticlesProcessed: stats.ArticlesProcessed,
		ArticlesCleanedUp: stats.ArticlesCleanedUp,
		TrendsIdentified:  stats.TrendsIdentified,
	}
	if err != nil {
		rec.Status = model.RunStatusError
		rec.Error = err.Error()
	}

	if p.runs != nil {
		if insertErr := p.runs.Insert(&rec); insertErr != nil {
			slog.Error("error recording ingestion run", "run_id", rec.ID, "error", insertErr)
		}
	}

	return stats, err
}

func (p *Pipeline) run(ctx context.Context, lookback time.Duration) (Stats, error) {
	calls := p.buildCalls(lookback)

	// Fan out every call; each failure degrades to an empty batch so one
	// entity never aborts the cycle for the rest. Arrival order across
	// goroutines decides dedupe priority.
	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		collected []llm.Post
	)

	for _, call := range calls {
		wg.Add(1)
		go func(sc searchCall) {
			defer wg.Done()
			posts := p.collect(ctx, sc)
			mu.Lock()
			collected = append(collected, posts...)
			mu.Unlock()
		}(call)
	}
	wg.Wait()

	unique := DedupeByURL(collected)
	trends, overview := p.analyze(ctx, unique)

	slog.Info("gathering complete",
		"calls", len(calls),
		"posts_collected", len(collected),
		"unique_posts", len(unique),
		"trends", len(trends),
	)

	stats := Stats{
		TotalPostsCollected: len(collected),
		UniquePosts:         len(unique),
		TrendsIdentified:    len(trends),
		Posts:               unique,
		Trends:              trends,
		Overview:            overview,
		Citations:           citations(unique),
	}

	res, err := p.store.SaveCycle(toArticles(unique), toTrends(trends), toOverview(overview))
	stats.ArticlesProcessed = res.NewArticles
	stats.ArticlesCleanedUp = res.Deleted
	if err != nil {
		return stats, fmt.Errorf("saving ingestion cycle: %w", err)
	}

	return stats, nil
}

func (p *Pipeline) buildCalls(lookback time.Duration) []searchCall {
	var calls []searchCall

	for _, e := range p.entities {
		calls = append(calls, searchCall{
			company: e.Name,
			req: llm.SearchRequest{
				Query:          llm.SocialSearchPrompt(e.Name, e.Handles, e.Keywords, lookback),
				AllowedDomains: socialDomains,
				MaxSearches:    5,
			},
		})
		calls = append(calls, searchCall{
			company: e.Name,
			req: llm.SearchRequest{
				Query:          llm.NewsSearchPrompt(e.Name, e.Keywords, lookback),
				AllowedDomains: e.Domains,
				MaxSearches:    5,
			},
		})
	}

	for _, chunk := range chunkDomains(p.outlets, p.maxDomainsPerCall) {
		calls = append(calls, searchCall{
			req: llm.SearchRequest{
				Query:          llm.GeneralNewsPrompt(chunk, lookback),
				AllowedDomains: chunk,
				MaxSearches:    5,
			},
		})
	}

	return calls
}

func (p *Pipeline) collect(ctx context.Context, sc searchCall) []llm.Post {
	raw, err := p.gateway.Search(ctx, sc.req)
	if err != nil {
		slog.Error("search call failed", "company", sc.company, "error", err)
		return nil
	}

	report := llm.ExtractReport(raw)
	for i := range report.Posts {
		if sc.company != "" {
			report.Posts[i].Company = sc.company
		} else if report.Posts[i].Company == "" {
			report.Posts[i].Company = model.GeneralCompany
		}
	}
	return report.Posts
}

// analyze runs the single trend/sentiment pass over a bounded prefix of the
// deduplicated posts. Failure degrades to no trends and a neutral overview.
func (p *Pipeline) analyze(ctx context.Context, posts []llm.Post) ([]llm.TrendItem, llm.Overview) {
	neutral := llm.DefaultReport().SentimentOverview

	if len(posts) == 0 {
		return []llm.TrendItem{}, neutral
	}

	sample := posts
	if len(sample) > analysisSampleSize {
		sample = sample[:analysisSampleSize]
	}

	lines := make([]string, len(sample))
	for i, post := range sample {
		lines[i] = fmt.Sprintf("[%s] %s (%s)", post.Company, post.Title, post.Sentiment)
	}

	raw, err := p.gateway.Complete(ctx, llm.AnalysisSystemPrompt, llm.AnalysisUserPrompt(lines))
	if err != nil {
		slog.Error("analysis call failed", "error", err)
		return []llm.TrendItem{}, neutral
	}

	report := llm.ExtractReport(raw)
	return report.Trends, report.SentimentOverview
}

// DedupeByURL keeps the first occurrence of every distinct url and drops
// posts with no url at all.
func DedupeByURL(posts []llm.Post) []llm.Post {
	seen := make(map[string]bool, len(posts))
	out := make([]llm.Post, 0, len(posts))
	for _, post := range posts {
		if post.URL == "" || seen[post.URL] {
			continue
		}
		seen[post.URL] = true
		out = append(out, post)
	}
	return out
}

func chunkDomains(domains []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var chunks [][]string
	for start := 0; start < len(domains); start += size {
		end := start + size
		if end > len(domains) {
			end = len(domains)
		}
		chunks = append(chunks, domains[start:end])
	}
	return chunks
}

func citations(posts []llm.Post) []string {
	urls := make([]string, len(posts))
	for i, post := range posts {
		urls[i] = post.URL
	}
	return urls
}

func toArticles(posts []llm.Post) []model.Article {
	articles := make([]model.Article, len(posts))
	for i, post := range posts {
		articles[i] = model.Article{
			URL:            post.URL,
			Title:          post.Title,
			ImageURL:       post.ImageURL,
			VideoURL:       post.VideoURL,
			MediaAnalysis:  post.MediaAnalysis,
			MediaSentiment: post.MediaSentiment,
			Sentiment:      normalizeSentiment(post.Sentiment),
			Company:        post.Company,
			Timestamp:      post.Timestamp,
			Snippet:        post.Snippet,
		}
	}
	return articles
}

func toTrends(items []llm.TrendItem) []model.Trend {
	trends := make([]model.Trend, len(items))
	for i, item := range items {
		trends[i] = model.Trend{
			Name:      item.Name,
			Score:     item.Score,
			Sentiment: normalizeSentiment(item.Sentiment),
		}
	}
	return trends
}

func toOverview(o llm.Overview) model.SentimentOverview {
	return model.SentimentOverview{
		Overall:       normalizeSentiment(o.Overall),
		Score:         o.Score,
		MediaInsights: o.MediaInsights,
	}
}

func normalizeSentiment(s string) string {
	switch s {
	case model.SentimentPositive, model.SentimentNegative, model.SentimentNeutral:
		return s
	default:
		return model.SentimentNeutral
	}
}
