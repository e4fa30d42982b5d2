package store

import (
	"triage/internal/models"
)

// FileRegistry holds the deduplicated working set of files and their
// categorization status. Entries handed out are copies.
type FileRegistry interface {
	Add(handles []models.FileHandle) int
	Get(id string) (*models.TrackedFile, error)
	All() []*models.TrackedFile
	Len() int
	Clear()

	Uncategorized() []*models.TrackedFile
	MergeResults(results []models.CategorizationResult) MergeReport
	CategoriesPresent() []string
	CategoryCounts() []models.CategoryCount
	FilterBy(category string) []*models.TrackedFile
}

// MergeReport describes how a result list was reconciled. It is
// informational only; a merge never fails.
type MergeReport struct {
	Updated    int      `json:"updated"`    // tracked files whose category/summary changed hands
	Unknown    []string `json:"unknown"`    // result names matching no tracked file
	Duplicates []string `json:"duplicates"` // names the response carried more than once (last one won)
}
