package categorizer

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ChatCompletionCreator defines the minimal interface for OpenAI chat completions.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAITransport talks to an OpenAI-compatible chat completion API using a
// strict JSON schema response format.
type OpenAITransport struct {
	newClient func(apiKey string) ChatCompletionCreator
}

// NewOpenAITransport creates an OpenAI transport. baseURL may be empty for
// the default endpoint.
func NewOpenAITransport(baseURL string) *OpenAITransport {
	return &OpenAITransport{
		newClient: func(apiKey string) ChatCompletionCreator {
			cfg := openai.DefaultConfig(apiKey)
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			return openai.NewClientWithConfig(cfg)
		},
	}
}

// NewOpenAITransportWithClient uses the given client for every request.
func NewOpenAITransportWithClient(client ChatCompletionCreator) *OpenAITransport {
	return &OpenAITransport{
		newClient: func(string) ChatCompletionCreator { return client },
	}
}

// Name returns the provider name.
func (t *OpenAITransport) Name() string { return "openai" }

// Generate sends the prompt and returns the raw message content. Strict
// schemas need an object at the top level, so the array travels under
// "files"; ParseResults unwraps it.
func (t *OpenAITransport) Generate(ctx context.Context, req Request) (Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
	}
	if req.Schema != nil {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "file_categorization",
				Schema: wrappedFileSchema(req.Schema),
				Strict: true,
			},
		}
	}

	resp, err := t.newClient(req.APIKey).CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Response{}, fmt.Errorf("openai chat completion failed: %w", err)
	}

	out := Response{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if len(resp.Choices) > 0 {
		out.Text = resp.Choices[0].Message.Content
	}
	return out, nil
}

var _ Transport = (*OpenAITransport)(nil)
