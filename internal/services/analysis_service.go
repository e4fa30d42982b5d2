package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"triage/internal/models"
	"triage/internal/store"
	"triage/pkg/categorizer"
)

// AnalysisOutcome summarizes one successful categorization cycle.
type AnalysisOutcome struct {
	CycleID   uuid.UUID         `json:"cycleId"`
	Status    string            `json:"status"`
	Submitted int               `json:"submitted"`
	Merge     store.MergeReport `json:"merge"`
	Remaining int               `json:"remaining"` // files still uncategorized after the merge
	Duration  time.Duration     `json:"duration"`
}

// AnalysisService owns the analysis cycle: it batches the uncategorized
// files, runs one categorization round trip and merges the answer back.
// At most one cycle runs at a time; a trigger while busy is rejected.
type AnalysisService struct {
	registry    store.FileRegistry
	categorizer categorizer.FileCategorizer

	mu         sync.Mutex
	state      models.AnalysisState
	lastError  error
	lastStatus string
}

func NewAnalysisService(registry store.FileRegistry, cat categorizer.FileCategorizer) *AnalysisService {
	return &AnalysisService{
		registry:    registry,
		categorizer: cat,
		state:       models.AnalysisStateIdle,
	}
}

// AddFiles registers a selection event and clears the last error.
func (s *AnalysisService) AddFiles(handles []models.FileHandle) int {
	added := s.registry.Add(handles)
	s.mu.Lock()
	s.lastError = nil
	s.mu.Unlock()
	log.Debugf("Selection of %d files added %d new entries", len(handles), added)
	return added
}

// Analyze runs one categorization cycle over the uncategorized files.
func (s *AnalysisService) Analyze(ctx context.Context) (*AnalysisOutcome, error) {
	batch, err := s.begin()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	cycleID := uuid.New()
	names := make([]string, len(batch))
	for i, f := range batch {
		names[i] = f.Name
	}
	log.Infof("Analysis cycle %s: submitting %d files", cycleID, len(names))

	results, err := s.categorizer.Categorize(ctx, names)
	if err != nil {
		s.finish(err)
		log.Warnf("Analysis cycle %s failed: %v", cycleID, err)
		return nil, err
	}

	report := s.registry.MergeResults(results)
	s.finish(nil)

	outcome := &AnalysisOutcome{
		CycleID:   cycleID,
		Status:    models.CycleStatusCompleted,
		Submitted: len(names),
		Merge:     report,
		Remaining: len(s.registry.Uncategorized()),
		Duration:  time.Since(started),
	}
	if len(report.Unknown) > 0 {
		log.Warnf("Analysis cycle %s: %d result names matched no tracked file: %v", cycleID, len(report.Unknown), report.Unknown)
	}
	if len(report.Duplicates) > 0 {
		log.Warnf("Analysis cycle %s: response repeated %v, the last entry won", cycleID, report.Duplicates)
	}
	if outcome.Remaining > 0 {
		log.Warnf("Analysis cycle %s: %d files are still uncategorized", cycleID, outcome.Remaining)
	}
	log.Infof("Analysis cycle %s completed: %d files updated in %s", cycleID, report.Updated, outcome.Duration)
	return outcome, nil
}

func (s *AnalysisService) begin() ([]*models.TrackedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.AnalysisStateRequesting {
		return nil, models.ErrAnalysisInProgress
	}
	if s.registry.Len() == 0 {
		s.lastError = models.ErrNoFiles
		return nil, models.ErrNoFiles
	}
	batch := s.registry.Uncategorized()
	if len(batch) == 0 {
		s.lastError = models.ErrAllAnalyzed
		return nil, models.ErrAllAnalyzed
	}
	s.state = models.AnalysisStateRequesting
	s.lastError = nil
	return batch, nil
}

func (s *AnalysisService) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.AnalysisStateIdle
	s.lastError = err
	if err != nil {
		s.lastStatus = models.CycleStatusFailed
	} else {
		s.lastStatus = models.CycleStatusCompleted
	}
}

// Clear drops every tracked file and forgets the last error and outcome.
func (s *AnalysisService) Clear() {
	s.registry.Clear()
	s.mu.Lock()
	s.lastError = nil
	s.lastStatus = ""
	s.mu.Unlock()
	log.Debugf("Selection cleared")
}

// LastCycleStatus returns CycleStatusCompleted or CycleStatusFailed for the
// last cycle that reached the categorizer, or "" if none did.
func (s *AnalysisService) LastCycleStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStatus
}

// State reports whether a cycle is in flight.
func (s *AnalysisService) State() models.AnalysisState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the last trigger, nil after a success or a
// new selection.
func (s *AnalysisService) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// UserMessage turns any analysis error into the single line shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrNoFiles):
		return "Please add some files first."
	case errors.Is(err, models.ErrAllAnalyzed):
		return "All files have already been analyzed."
	case errors.Is(err, models.ErrAnalysisInProgress):
		return "An analysis is already in progress."
	case errors.Is(err, categorizer.ErrConfiguration):
		return "API key not found. Please set the API_KEY environment variable (OPENAI_API_KEY for the openai provider)."
	case errors.Is(err, categorizer.ErrTransport):
		return "Failed to categorize files with the AI service."
	case errors.Is(err, categorizer.ErrCategorization):
		return "The AI service returned a response that could not be read."
	default:
		return "An unknown error occurred during analysis."
	}
}
