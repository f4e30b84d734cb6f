package llm

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

// Post is one article or social post as reported by the model.
type Post struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	ImageURL       string `json:"image_url"`
	VideoURL       string `json:"video_url"`
	MediaAnalysis  string `json:"media_analysis"`
	MediaSentiment string `json:"media_sentiment"`
	Sentiment      string `json:"sentiment"`
	Company        string `json:"company"`
	Timestamp      string `json:"timestamp"`
	Snippet        string `json:"snippet"`
}

type TrendItem struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Sentiment string  `json:"sentiment"`
}

type Overview struct {
	Overall       string  `json:"overall"`
	Score         float64 `json:"score"`
	MediaInsights string  `json:"media_insights"`
}

// Report is the structured payload embedded in a model reply.
type Report struct {
	Posts             []Post      `json:"posts"`
	Trends            []TrendItem `json:"trends"`
	SentimentOverview Overview    `json:"sentiment_overview"`
}

var (
	jsonFence = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	bareFence = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// DefaultReport is the value every parse failure degrades to.
func DefaultReport() Report {
	return Report{
		Posts:             []Post{},
		Trends:            []TrendItem{},
		SentimentOverview: Overview{Overall: "neutral", Score: 0.5},
	}
}

// ExtractReport pulls a JSON report out of the model's free-text reply.
// Replies usually wrap the JSON in a fenced code block with prose around it,
// so candidates are tried in order: ```json fence, bare ``` fence, then the
// whole string. Never returns an error; anything unparseable becomes the
// default report.
func ExtractReport(raw string) Report {
	if strings.TrimSpace(raw) == "" {
		return DefaultReport()
	}

	var candidates []string
	if m := jsonFence.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := bareFence.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, raw)

	for _, candidate := range candidates {
		report := DefaultReport()
		if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &report); err != nil {
			continue
		}
		if report.Posts == nil {
			report.Posts = []Post{}
		}
		if report.Trends == nil {
			report.Trends = []TrendItem{}
		}
		if report.SentimentOverview.Overall == "" {
			report.SentimentOverview = DefaultReport().SentimentOverview
		}
		return report
	}

	slog.Warn("could not extract JSON report from model reply", "length", len(raw))
	return DefaultReport()
}
