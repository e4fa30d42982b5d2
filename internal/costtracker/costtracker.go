package costtracker

import (
	"context"
	"sync"
	"time"
)

// CostEvent represents a single AI usage event and its cost.
type CostEvent struct {
	Operation    string                 `json:"operation"` // e.g., "categorization"
	Provider     string                 `json:"provider"`
	Model        string                 `json:"model"`
	InputTokens  int                    `json:"inputTokens"`
	OutputTokens int                    `json:"outputTokens"`
	AmountUSD    float64                `json:"amountUsd"`
	Timestamp    time.Time              `json:"timestamp"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) error
	TotalCost(ctx context.Context) (float64, error)
	Events(ctx context.Context) ([]CostEvent, error)
}

// New returns a tracker that keeps events for the lifetime of the process.
func New() CostTracker {
	return &memoryCostTracker{}
}

type memoryCostTracker struct {
	mu     sync.Mutex
	events []CostEvent
}

func (m *memoryCostTracker) RecordCost(ctx context.Context, event CostEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memoryCostTracker) TotalCost(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, e := range m.events {
		total += e.AmountUSD
	}
	return total, nil
}

func (m *memoryCostTracker) Events(ctx context.Context) ([]CostEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CostEvent, len(m.events))
	copy(out, m.events)
	return out, nil
}

// Noop discards every event.
func Noop() CostTracker {
	return &noopCostTracker{}
}

type noopCostTracker struct{}

func (n *noopCostTracker) RecordCost(ctx context.Context, event CostEvent) error { return nil }
func (n *noopCostTracker) TotalCost(ctx context.Context) (float64, error)        { return 0, nil }
func (n *noopCostTracker) Events(ctx context.Context) ([]CostEvent, error)       { return nil, nil }
