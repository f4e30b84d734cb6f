package llm

import "context"

// SearchRequest scopes one agentic search call. AllowedDomains restricts the
// model's search tool; the gateway caps how many domains a single call may
// carry, so callers chunk larger groups.
type SearchRequest struct {
	Query          string
	AllowedDomains []string
	MaxSearches    int
}

// Gateway is the external model API. Search runs an agentic web search and
// returns the model's free-text reply; Complete is a plain completion used
// for the trend/sentiment analysis pass. Both return raw text that callers
// feed through ExtractReport.
type Gateway interface {
	Search(ctx context.Context, req SearchRequest) (string, error)
	Complete(ctx context.Context, system, user string) (string, error)
}
