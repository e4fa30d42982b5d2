package categorizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"triage/internal/config"
	"triage/internal/costtracker"
	"triage/internal/models"
)

// FileNamesPlaceholder is replaced by the comma separated file names.
const FileNamesPlaceholder = "{{FILE_NAMES}}"

// DefaultPromptTemplate is used when no template is configured.
const DefaultPromptTemplate = "Analyze this list of file names and provide a category and a one-sentence summary for each. " +
	"Prioritize concise and relevant categories. Here are the file names: " + FileNamesPlaceholder

// Client implements FileCategorizer on top of a Transport. The credential
// is injected at construction; the client never reads the environment.
type Client struct {
	transport      Transport
	apiKey         string
	model          string
	promptTemplate string

	// Dependencies for cost tracking
	costTracker costtracker.CostTracker
	pricing     map[string]config.PricingInfo
}

// NewClient creates a categorization client. An empty apiKey is accepted
// here and reported by Categorize. A nil costTracker discards usage; pricing
// may be nil.
func NewClient(transport Transport, apiKey, model, promptTemplate string, costTracker costtracker.CostTracker, pricing map[string]config.PricingInfo) *Client {
	if promptTemplate == "" {
		promptTemplate = DefaultPromptTemplate
	}
	if costTracker == nil {
		costTracker = costtracker.Noop()
	}
	return &Client{
		transport:      transport,
		apiKey:         apiKey,
		model:          model,
		promptTemplate: promptTemplate,
		costTracker:    costTracker,
		pricing:        pricing,
	}
}

// Categorize sends the names in one request and returns the parsed results.
// The result may omit names or carry names that were never sent.
func (c *Client) Categorize(ctx context.Context, names []string) ([]models.CategorizationResult, error) {
	if len(names) == 0 {
		return nil, models.ErrNoFiles
	}
	if c.apiKey == "" {
		return nil, ErrConfiguration
	}
	if c.transport == nil {
		return nil, fmt.Errorf("%w: no transport configured", ErrConfiguration)
	}

	req := Request{
		APIKey: c.apiKey,
		Model:  c.model,
		Prompt: BuildPrompt(c.promptTemplate, names),
		Schema: FileSchema(),
	}

	log.Debugf("Requesting categorization of %d files from %s (model %s)", len(names), c.transport.Name(), c.model)
	resp, err := c.transport.Generate(ctx, req)
	if err != nil {
		log.Errorf("Error calling %s API: %v", c.transport.Name(), err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	results, err := ParseResults(resp.Text)
	if err != nil {
		return nil, err
	}

	c.recordUsage(ctx, resp, len(names))
	return results, nil
}

// BuildPrompt fills the template with the file names. Templates without the
// placeholder get the names appended.
func BuildPrompt(template string, names []string) string {
	joined := strings.Join(names, ", ")
	if !strings.Contains(template, FileNamesPlaceholder) {
		return strings.TrimRight(template, "\n") + "\n\nFile names: " + joined
	}
	return strings.ReplaceAll(template, FileNamesPlaceholder, joined)
}

func (c *Client) recordUsage(ctx context.Context, resp Response, fileCount int) {
	if resp.InputTokens+resp.OutputTokens == 0 {
		return
	}

	var cost float64
	priceInfo, ok := c.pricing[c.model]
	if ok {
		cost = float64(resp.InputTokens)*priceInfo.InputPerToken +
			float64(resp.OutputTokens)*priceInfo.OutputPerToken
	} else {
		log.Debugf("Pricing info not found for model '%s'. Recording usage without cost.", c.model)
	}

	event := costtracker.CostEvent{
		Operation:    models.OperationCategorization,
		Provider:     c.transport.Name(),
		Model:        c.model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		AmountUSD:    cost,
		Timestamp:    time.Now().UTC(),
		Details: map[string]interface{}{
			"file_count": fileCount,
		},
	}
	if err := c.costTracker.RecordCost(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage for categorization: %v", err)
		return
	}
	log.Debugf("Recorded AI usage: Provider=%s, Model=%s, InputTokens=%d, OutputTokens=%d, Cost=%.8f",
		event.Provider, event.Model, event.InputTokens, event.OutputTokens, event.AmountUSD)
}

// Ensure Client implements FileCategorizer at compile time.
var _ FileCategorizer = (*Client)(nil)
