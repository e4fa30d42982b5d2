package categorizer

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"

	"triage/internal/models"
)

// FileCategorizer categorizes files by name. One call is one round trip
// against the external service.
type FileCategorizer interface {
	Categorize(ctx context.Context, names []string) ([]models.CategorizationResult, error)
}

// Request holds everything a transport needs for a single generation call.
type Request struct {
	APIKey string
	Model  string
	Prompt string
	Schema *jsonschema.Definition
}

// Response holds the raw text of the service answer and its token usage.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Transport performs exactly one request against a generative text service.
// It must not retry.
type Transport interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
}
