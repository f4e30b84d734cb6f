package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/AppleLamps/elon-hub/internal/ingest"
	"github.com/AppleLamps/elon-hub/internal/model"
	"github.com/gin-gonic/gin"
)

type CycleRunner interface {
	Run(ctx context.Context, lookback time.Duration) (ingest.Stats, error)
}

type SchemaStore interface {
	EnsureSchema() error
}

type RunStore interface {
	GetRecent(limit int) ([]model.RunRecord, error)
}

// RefreshHandler owns the write-side endpoints: the scheduled ingestion
// trigger, the manual fetch variant, and the schema bootstrap. When no secret
// is configured the endpoints are open (development mode).
type RefreshHandler struct {
	pipeline CycleRunner
	store    SchemaStore
	runs     RunStore
	secret   string
}

func NewRefreshHandler(pipeline CycleRunner, store SchemaStore, runs RunStore, secret string) *RefreshHandler {
	return &RefreshHandler{
		pipeline: pipeline,
		store:    store,
		runs:     runs,
		secret:   secret,
	}
}

func (h *RefreshHandler) authorized(c *gin.Context) bool {
	if h.secret == "" {
		return true
	}
	return c.GetHeader("Authorization") == "Bearer "+h.secret
}

// TriggerRefresh runs one full ingestion cycle. Invoked by the external cron
// on the refresh period, or manually by an operator.
func (h *RefreshHandler) TriggerRefresh(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.pipeline.Run(c.Request.Context(), 0)
	if err != nil {
		slog.Error("ingestion cycle failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Success:   true,
		Stats:     toRefreshStats(stats),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// FetchNews runs a synchronous cycle scoped to a caller-supplied lookback
// window in hours and returns the collected data alongside the counts.
func (h *RefreshHandler) FetchNews(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Hours int `json:"hours"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	stats, err := h.pipeline.Run(c.Request.Context(), time.Duration(body.Hours)*time.Hour)
	if err != nil {
		slog.Error("manual fetch failed", "hours", body.Hours, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, FetchResponse{
		Success:           true,
		Data:              collectedData(stats),
		ArticlesProcessed: stats.ArticlesProcessed,
		ArticlesCleanedUp: stats.ArticlesCleanedUp,
		Citations:         stats.Citations,
		SavedAt:           time.Now().UTC().Format(time.RFC3339),
	})
}

// InitDB creates the tables if absent; safe to call repeatedly.
func (h *RefreshHandler) InitDB(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.store.EnsureSchema(); err != nil {
		slog.Error("error initializing database", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Database initialized"})
}

func (h *RefreshHandler) GetRuns(c *gin.Context) {
	runs, err := h.runs.GetRecent(20)
	if err != nil {
		slog.Error("error fetching ingestion runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		res = append(res, RunResponse{
			ID:                r.ID,
			StartedAt:         r.StartedAt.Format(time.RFC3339),
			FinishedAt:        r.FinishedAt.Format(time.RFC3339),
			Status:            r.Status,
			Error:             r.Error,
			PostsCollected:    r.PostsCollected,
			UniquePosts:       r.UniquePosts,
			ArticlesProcessed: r.ArticlesProcessed,
			ArticlesCleanedUp: r.ArticlesCleanedUp,
			TrendsIdentified:  r.TrendsIdentified,
		})
	}

	c.JSON(http.StatusOK, res)
}

func toRefreshStats(stats ingest.Stats) RefreshStats {
	return RefreshStats{
		TotalPostsCollected: stats.TotalPostsCollected,
		UniquePosts:         stats.UniquePosts,
		ArticlesProcessed:   stats.ArticlesProcessed,
		ArticlesCleanedUp:   stats.ArticlesCleanedUp,
		TrendsIdentified:    stats.TrendsIdentified,
	}
}

// collectedData maps the cycle's in-memory result (not a DB read) into the
// shared snapshot shape.
func collectedData(stats ingest.Stats) SnapshotData {
	data := SnapshotData{
		Posts:             []PostResponse{},
		Trends:            []TrendResponse{},
		SentimentOverview: OverviewResponse{Overall: stats.Overview.Overall, Score: stats.Overview.Score, MediaInsights: stats.Overview.MediaInsights},
	}
	if data.SentimentOverview.Overall == "" {
		data.SentimentOverview.Overall = model.SentimentNeutral
		data.SentimentOverview.Score = 0.5
	}

	for _, p := range stats.Posts {
		data.Posts = append(data.Posts, PostResponse{
			Title:          p.Title,
			URL:            p.URL,
			ImageURL:       p.ImageURL,
			VideoURL:       p.VideoURL,
			MediaAnalysis:  p.MediaAnalysis,
			MediaSentiment: p.MediaSentiment,
			Sentiment:      p.Sentiment,
			Company:        p.Company,
			Timestamp:      p.Timestamp,
			Snippet:        p.Snippet,
		})
	}

	for _, t := range stats.Trends {
		data.Trends = append(data.Trends, TrendResponse{
			Name:      t.Name,
			Score:     t.Score,
			Sentiment: t.Sentiment,
		})
	}

	return data
}
