package llm

import (
	"fmt"
	"strings"
	"time"
)

const reportFormat = `Output as JSON only, inside a single code block, no other text:
{
  "posts": [
    {
      "title": "headline",
      "url": "https://...",
      "image_url": "https://... or empty",
      "video_url": "https://... or empty",
      "media_analysis": "what the attached image/video shows, or empty",
      "media_sentiment": "positive|negative|neutral or empty",
      "sentiment": "positive|negative|neutral",
      "company": "which tracked company this is about",
      "timestamp": "source-reported time as given",
      "snippet": "one or two sentence summary"
    }
  ]
}`

// AnalysisSystemPrompt drives the single trend/sentiment pass over the
// deduplicated post set.
const AnalysisSystemPrompt = `You are a news analyst. You are given a list of headlines in the form "[company] title (sentiment)".

Identify up to 10 trending topics across the headlines, ranked by how dominant they are, and one overall sentiment assessment.

Output as JSON only, inside a single code block, no other text:
{
  "trends": [
    {"name": "topic label", "score": 9.1, "sentiment": "positive|negative|neutral"}
  ],
  "sentiment_overview": {
    "overall": "positive|negative|neutral",
    "score": 0.0,
    "media_insights": "one sentence on notable images/videos, or empty"
  }
}
The sentiment_overview score is confidence between 0 and 1.`

// SocialSearchPrompt scopes a search call to an entity's social handles.
func SocialSearchPrompt(name string, handles []string, keywords string, lookback time.Duration) string {
	days := int(lookback.Hours() / 24)
	if days < 1 {
		days = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Search X (Twitter) for posts from the last %d days about %s.\n", days, name)
	fmt.Fprintf(&sb, "Only consider posts from these accounts: @%s.\n", strings.Join(handles, ", @"))
	fmt.Fprintf(&sb, "Focus on: %s.\n", keywords)
	sb.WriteString("Collect up to 10 notable posts. Describe any attached image or video and its sentiment.\n\n")
	sb.WriteString(reportFormat)
	return sb.String()
}

// NewsSearchPrompt scopes a search call to an entity's allowed news domains.
func NewsSearchPrompt(name string, keywords string, lookback time.Duration) string {
	days := int(lookback.Hours() / 24)
	if days < 1 {
		days = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Search for news articles from the last %d days about %s.\n", days, name)
	fmt.Fprintf(&sb, "Focus on: %s.\n", keywords)
	sb.WriteString("Collect up to 10 distinct articles with their canonical URLs.\n\n")
	sb.WriteString(reportFormat)
	return sb.String()
}

// GeneralNewsPrompt covers a chunk of general outlet domains with no entity
// scope; the model assigns the company label itself.
func GeneralNewsPrompt(domains []string, lookback time.Duration) string {
	days := int(lookback.Hours() / 24)
	if days < 1 {
		days = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Search %s for news from the last %d days about Elon Musk or his companies (Tesla, SpaceX, xAI, Neuralink, The Boring Company).\n", strings.Join(domains, ", "), days)
	sb.WriteString("Collect up to 10 distinct articles. Set company to the company each article is mainly about, or \"General\".\n\n")
	sb.WriteString(reportFormat)
	return sb.String()
}

// AnalysisUserPrompt summarizes the deduplicated posts for the analysis pass.
func AnalysisUserPrompt(lines []string) string {
	return strings.Join(lines, "\n")
}
