package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/api/option"
)

// GeminiTransport talks to the Google Gemini API. A client is created per
// request with the request's credential and closed afterwards.
type GeminiTransport struct {
	opts []option.ClientOption // extra client options, e.g. an endpoint override
}

// NewGeminiTransport creates a Gemini transport.
func NewGeminiTransport(opts ...option.ClientOption) *GeminiTransport {
	return &GeminiTransport{opts: opts}
}

// Name returns the provider name.
func (t *GeminiTransport) Name() string { return "gemini" }

// Generate sends the prompt with a JSON response schema and returns the raw text.
func (t *GeminiTransport) Generate(ctx context.Context, req Request) (Response, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(req.APIKey)}, t.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(req.Model)
	configureModel(model, req)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return Response{}, fmt.Errorf("Gemini API error generating content: %w", err)
	}

	out := Response{Text: responseText(resp)}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// configureModel asks for a JSON answer constrained to the request schema.
func configureModel(model *genai.GenerativeModel, req Request) {
	model.ResponseMIMEType = "application/json"
	if req.Schema != nil {
		model.ResponseSchema = toGenaiSchema(req.Schema)
	}
}

// responseText concatenates the text parts of the first candidate. A
// response without candidates yields "", which the parser rejects.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

var genaiTypes = map[jsonschema.DataType]genai.Type{
	jsonschema.Object:  genai.TypeObject,
	jsonschema.Array:   genai.TypeArray,
	jsonschema.String:  genai.TypeString,
	jsonschema.Number:  genai.TypeNumber,
	jsonschema.Integer: genai.TypeInteger,
	jsonschema.Boolean: genai.TypeBoolean,
}

// toGenaiSchema converts a JSON schema definition into the Gemini schema
// type. additionalProperties has no Gemini equivalent and is dropped.
func toGenaiSchema(def *jsonschema.Definition) *genai.Schema {
	if def == nil {
		return nil
	}
	s := &genai.Schema{
		Type:        genaiTypes[def.Type],
		Description: def.Description,
		Enum:        def.Enum,
		Required:    def.Required,
		Items:       toGenaiSchema(def.Items),
	}
	if len(def.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(def.Properties))
		for name, prop := range def.Properties {
			prop := prop
			s.Properties[name] = toGenaiSchema(&prop)
		}
	}
	return s
}

var _ Transport = (*GeminiTransport)(nil)
