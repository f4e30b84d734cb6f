package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGateway is the alternate backend, selected when only an OpenAI key is
// configured. Domain restrictions ride in the prompt because the search
// preview models take no allowed-domain parameter.
type OpenAIGateway struct {
	client      *openai.Client
	searchModel openai.ChatModel
	model       openai.ChatModel
}

func NewOpenAIGateway(apiKey string) *OpenAIGateway {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIGateway{
		client:      &client,
		searchModel: openai.ChatModelGPT4oSearchPreview,
		model:       openai.ChatModelGPT4oMini,
	}
}

func (g *OpenAIGateway) Search(ctx context.Context, req SearchRequest) (string, error) {
	query := req.Query
	if len(req.AllowedDomains) > 0 {
		query = fmt.Sprintf("%s\n\nOnly use these sources: %s.", query, strings.Join(req.AllowedDomains, ", "))
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.searchModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(query),
		},
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGateway) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
