package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Snapshot is the client-side view of one /api/news response.
type Snapshot struct {
	Posts             []Post     `json:"posts"`
	Trends            []Trend    `json:"trends"`
	SentimentOverview Overview   `json:"sentiment_overview"`
	LastUpdate        *time.Time `json:"last_update"`
	NextUpdate        *time.Time `json:"next_update"`
}

type Post struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Sentiment string `json:"sentiment"`
	Company   string `json:"company"`
	Snippet   string `json:"snippet"`
	CreatedAt string `json:"created_at"`
}

type Trend struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Sentiment string  `json:"sentiment"`
}

type Overview struct {
	Overall       string  `json:"overall"`
	Score         float64 `json:"score"`
	MediaInsights string  `json:"media_insights"`
}

type Fetcher interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// Client fetches snapshots over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/news", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot request returned status %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			Posts             []Post   `json:"posts"`
			Trends            []Trend  `json:"trends"`
			SentimentOverview Overview `json:"sentiment_overview"`
		} `json:"data"`
		LastUpdate *string `json:"lastUpdate"`
		NextUpdate *string `json:"nextUpdate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	snap := &Snapshot{
		Posts:             body.Data.Posts,
		Trends:            body.Data.Trends,
		SentimentOverview: body.Data.SentimentOverview,
		LastUpdate:        parseTime(body.LastUpdate),
		NextUpdate:        parseTime(body.NextUpdate),
	}
	return snap, nil
}

func parseTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
