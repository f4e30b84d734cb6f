package model

import "time"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"

	GeneralCompany = "General"
)

// Article is one deduplicated news item or social post. CreatedAt is the
// ingestion time assigned by the database, not the source-reported Timestamp;
// retention and feed ordering are computed from it.
type Article struct {
	ID             int64     `json:"id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	ImageURL       string    `json:"image_url"`
	VideoURL       string    `json:"video_url"`
	MediaAnalysis  string    `json:"media_analysis"`
	MediaSentiment string    `json:"media_sentiment"`
	Sentiment      string    `json:"sentiment"`
	Company        string    `json:"company"`
	Timestamp      string    `json:"timestamp"`
	Snippet        string    `json:"snippet"`
	CreatedAt      time.Time `json:"created_at"`
}

// Trend rows are replaced wholesale on every successful ingestion cycle.
type Trend struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	Sentiment string    `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
}

// SentimentOverview is appended once per cycle; only the newest row is served.
type SentimentOverview struct {
	ID            int64     `json:"id"`
	Overall       string    `json:"overall"`
	Score         float64   `json:"score"`
	MediaInsights string    `json:"media_insights"`
	CreatedAt     time.Time `json:"created_at"`
}

// Snapshot is the derived read model served to the dashboard.
type Snapshot struct {
	Articles   []Article          `json:"articles"`
	Trends     []Trend            `json:"trends"`
	Overview   *SentimentOverview `json:"overview"`
	LastUpdate *time.Time         `json:"last_update"`
	NextUpdate *time.Time         `json:"next_update"`
}
