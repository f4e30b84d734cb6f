package handler

type PostResponse struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	ImageURL       string `json:"image_url,omitempty"`
	VideoURL       string `json:"video_url,omitempty"`
	MediaAnalysis  string `json:"media_analysis,omitempty"`
	MediaSentiment string `json:"media_sentiment,omitempty"`
	Sentiment      string `json:"sentiment"`
	Company        string `json:"company"`
	Timestamp      string `json:"timestamp"`
	Snippet        string `json:"snippet,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type TrendResponse struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Sentiment string  `json:"sentiment"`
}

type OverviewResponse struct {
	Overall       string  `json:"overall"`
	Score         float64 `json:"score"`
	MediaInsights string  `json:"media_insights,omitempty"`
}

type SnapshotData struct {
	Posts             []PostResponse   `json:"posts"`
	Trends            []TrendResponse  `json:"trends"`
	SentimentOverview OverviewResponse `json:"sentiment_overview"`
}

type SnapshotResponse struct {
	Data       SnapshotData `json:"data"`
	LastUpdate *string      `json:"lastUpdate"`
	NextUpdate *string      `json:"nextUpdate"`
}

type RefreshStats struct {
	TotalPostsCollected int `json:"totalPostsCollected"`
	UniquePosts         int `json:"uniquePosts"`
	ArticlesProcessed   int `json:"articlesProcessed"`
	ArticlesCleanedUp   int `json:"articlesCleanedUp"`
	TrendsIdentified    int `json:"trendsIdentified"`
}

type RefreshResponse struct {
	Success   bool         `json:"success"`
	Stats     RefreshStats `json:"stats"`
	UpdatedAt string       `json:"updatedAt"`
}

type FetchResponse struct {
	Success           bool         `json:"success"`
	Data              SnapshotData `json:"data"`
	ArticlesProcessed int          `json:"articlesProcessed"`
	ArticlesCleanedUp int          `json:"articlesCleanedUp"`
	Citations         []string     `json:"citations"`
	SavedAt           string       `json:"savedAt"`
}

type RunResponse struct {
	ID                string `json:"id"`
	StartedAt         string `json:"started_at"`
	FinishedAt        string `json:"finished_at"`
	Status            string `json:"status"`
	Error             string `json:"error,omitempty"`
	PostsCollected    int    `json:"posts_collected"`
	UniquePosts       int    `json:"unique_posts"`
	ArticlesProcessed int    `json:"articles_processed"`
	ArticlesCleanedUp int    `json:"articles_cleaned_up"`
	TrendsIdentified  int    `json:"trends_identified"`
}
