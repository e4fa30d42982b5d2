package models

/*
Analysis cycle states. One cycle is one request/response round trip against
the categorization service; the owner moves Idle -> Requesting -> Idle.
*/

// AnalysisState is the state of the analysis cycle owner.
type AnalysisState string

const (
	AnalysisStateIdle       AnalysisState = "idle"
	AnalysisStateRequesting AnalysisState = "requesting"
)

// Outcome of the last finished cycle, empty before the first one.
const (
	CycleStatusCompleted = "completed"
	CycleStatusFailed    = "failed"
)

// Operation names used by usage tracking
const (
	OperationCategorization = "categorization"
)
