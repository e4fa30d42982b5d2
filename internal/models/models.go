package models

import (
	"strconv"
	"time"
)

const (
	CategoryUncategorized = "Uncategorized"
	CategoryAll           = "All"
	SummaryNotAnalyzed    = "Not yet analyzed."
)

// FileHandle is a raw file as delivered by a selection event (a folder walk
// or a browser upload listing). Only metadata travels, never content.
type FileHandle struct {
	Name         string    `json:"name"`
	RelativePath string    `json:"relativePath,omitempty"` // may be empty, Name is used as path then
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType,omitempty"` // may be empty
	LastModified time.Time `json:"lastModified"`
}

// Identity derives the deduplication key from the name and the
// last-modified timestamp in milliseconds.
func (h FileHandle) Identity() string {
	return h.Name + "-" + strconv.FormatInt(h.LastModified.UnixMilli(), 10)
}

// TrackedFile is a file known to the registry together with its
// categorization status.
type TrackedFile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	LastModified time.Time `json:"lastModified"`
	Category     string    `json:"category"`
	Summary      string    `json:"summary"`
}

// NewTrackedFile builds an uncategorized entry from a raw handle.
func NewTrackedFile(h FileHandle) *TrackedFile {
	path := h.RelativePath
	if path == "" {
		path = h.Name
	}
	return &TrackedFile{
		ID:           h.Identity(),
		Name:         h.Name,
		Path:         path,
		Size:         h.Size,
		MimeType:     h.MimeType,
		LastModified: h.LastModified,
		Category:     CategoryUncategorized,
		Summary:      SummaryNotAnalyzed,
	}
}

// IsCategorized reports whether the file left the sentinel category.
func (f *TrackedFile) IsCategorized() bool {
	return f.Category != CategoryUncategorized
}

// CategorizationResult is one entry of the service response, keyed by the
// original file name rather than by the registry identity.
type CategorizationResult struct {
	FileName string `json:"fileName"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
}

// CategoryCount pairs a category with the number of tracked files in it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
