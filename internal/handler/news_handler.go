package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/AppleLamps/elon-hub/internal/model"
	"github.com/gin-gonic/gin"
)

type SnapshotSource interface {
	GetSnapshot() (model.Snapshot, error)
}

type ArticleCounter interface {
	Count() (int, error)
}

type NewsHandler struct {
	snapshots SnapshotSource
	articles  ArticleCounter
}

func NewNewsHandler(snapshots SnapshotSource, articles ArticleCounter) *NewsHandler {
	return &NewsHandler{snapshots: snapshots, articles: articles}
}

// GetNews serves the current snapshot. Intermediate HTTP caches are disabled;
// the service's own short TTL slot does the burst absorption.
func (h *NewsHandler) GetNews(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	snap, err := h.snapshots.GetSnapshot()
	if err != nil {
		slog.Error("error building snapshot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, SnapshotResponse{
		Data:       toSnapshotData(snap.Articles, snap.Trends, snap.Overview),
		LastUpdate: formatTime(snap.LastUpdate),
		NextUpdate: formatTime(snap.NextUpdate),
	})
}

func (h *NewsHandler) GetHealth(c *gin.Context) {
	_, err := h.articles.Count()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func toSnapshotData(articles []model.Article, trends []model.Trend, overview *model.SentimentOverview) SnapshotData {
	data := SnapshotData{
		Posts:             []PostResponse{},
		Trends:            []TrendResponse{},
		SentimentOverview: OverviewResponse{Overall: model.SentimentNeutral, Score: 0.5},
	}

	for _, a := range articles {
		data.Posts = append(data.Posts, PostResponse{
			ID:             a.ID,
			Title:          a.Title,
			URL:            a.URL,
			ImageURL:       a.ImageURL,
			VideoURL:       a.VideoURL,
			MediaAnalysis:  a.MediaAnalysis,
			MediaSentiment: a.MediaSentiment,
			Sentiment:      a.Sentiment,
			Company:        a.Company,
			Timestamp:      a.Timestamp,
			Snippet:        a.Snippet,
			CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		})
	}

	for _, t := range trends {
		data.Trends = append(data.Trends, TrendResponse{
			Name:      t.Name,
			Score:     t.Score,
			Sentiment: t.Sentiment,
		})
	}

	if overview != nil {
		data.SentimentOverview = OverviewResponse{
			Overall:       overview.Overall,
			Score:         overview.Score,
			MediaInsights: overview.MediaInsights,
		}
	}

	return data
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
