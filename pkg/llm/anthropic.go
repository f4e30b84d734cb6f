package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicGateway struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewAnthropicGateway(apiKey string) *AnthropicGateway {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicGateway{
		client: &client,
		model:  anthropic.ModelClaudeSonnet4_5,
	}
}

func (g *AnthropicGateway) Search(ctx context.Context, req SearchRequest) (string, error) {
	webSearch := anthropic.WebSearchTool20250305Param{}
	if len(req.AllowedDomains) > 0 {
		webSearch.AllowedDomains = req.AllowedDomains
	}
	if req.MaxSearches > 0 {
		webSearch.MaxUses = anthropic.Int(int64(req.MaxSearches))
	}

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: 4096,
		Tools: []anthropic.ToolUnionParam{
			{OfWebSearchTool20250305: &webSearch},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Query)),
		},
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return "", fmt.Errorf("no text in anthropic response")
	}
	return text, nil
}

func (g *AnthropicGateway) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return "", fmt.Errorf("no text in anthropic response")
	}
	return text, nil
}

// collectText joins the text blocks of a reply; tool-use and search-result
// blocks interleave with them when the web search tool runs.
func collectText(resp *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
