package store

import (
	"fmt"
	"sync"

	"triage/internal/models"
)

// Registry is the in-memory FileRegistry. It lives as long as the process.
type Registry struct {
	mu    sync.RWMutex
	files []*models.TrackedFile
	index map[string]int // identity -> position in files
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Add tracks every handle whose identity is not known yet, preserving the
// order of the input. It returns how many entries were appended.
func (r *Registry) Add(handles []models.FileHandle) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, h := range handles {
		f := models.NewTrackedFile(h)
		if _, exists := r.index[f.ID]; exists {
			continue
		}
		r.index[f.ID] = len(r.files)
		r.files = append(r.files, f)
		added++
	}
	return added
}

// Get returns a copy of the entry with the given identity.
func (r *Registry) Get(id string) (*models.TrackedFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	f := *r.files[pos]
	return &f, nil
}

// All returns copies of every entry in insertion order.
func (r *Registry) All() []*models.TrackedFile {
	return r.selectFiles(func(*models.TrackedFile) bool { return true })
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

// Clear drops every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = nil
	r.index = make(map[string]int)
}

// Uncategorized returns the entries still carrying the sentinel category.
func (r *Registry) Uncategorized() []*models.TrackedFile {
	return r.selectFiles(func(f *models.TrackedFile) bool { return !f.IsCategorized() })
}

// MergeResults overwrites category and summary of every tracked file whose
// name matches a result. Duplicate result names resolve last-write-wins;
// tracked files without a matching result are left as they are.
func (r *Registry) MergeResults(results []models.CategorizationResult) MergeReport {
	var report MergeReport

	byName := make(map[string]models.CategorizationResult, len(results))
	seenDup := make(map[string]bool)
	for _, res := range results {
		if _, ok := byName[res.FileName]; ok && !seenDup[res.FileName] {
			seenDup[res.FileName] = true
			report.Duplicates = append(report.Duplicates, res.FileName)
		}
		byName[res.FileName] = res
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make(map[string]bool, len(byName))
	for _, f := range r.files {
		res, ok := byName[f.Name]
		if !ok {
			continue
		}
		matched[f.Name] = true
		f.Category = res.Category
		f.Summary = res.Summary
		report.Updated++
	}

	for _, res := range results {
		if !matched[res.FileName] {
			matched[res.FileName] = true // report each unknown name once
			report.Unknown = append(report.Unknown, res.FileName)
		}
	}
	return report
}

// CategoriesPresent returns "All" followed by the distinct categories in
// first-seen order.
func (r *Registry) CategoriesPresent() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := []string{models.CategoryAll}
	seen := make(map[string]bool)
	for _, f := range r.files {
		if seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		categories = append(categories, f.Category)
	}
	return categories
}

// CategoryCounts returns the categories present (including "All") with the
// number of files each one selects.
func (r *Registry) CategoryCounts() []models.CategoryCount {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := []models.CategoryCount{{Name: models.CategoryAll, Count: len(r.files)}}
	pos := make(map[string]int)
	for _, f := range r.files {
		i, ok := pos[f.Category]
		if !ok {
			i = len(counts)
			pos[f.Category] = i
			counts = append(counts, models.CategoryCount{Name: f.Category})
		}
		counts[i].Count++
	}
	return counts
}

// FilterBy returns every entry for "All", otherwise the exact matches.
func (r *Registry) FilterBy(category string) []*models.TrackedFile {
	if category == models.CategoryAll {
		return r.All()
	}
	return r.selectFiles(func(f *models.TrackedFile) bool { return f.Category == category })
}

func (r *Registry) selectFiles(keep func(*models.TrackedFile) bool) []*models.TrackedFile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.TrackedFile, 0, len(r.files))
	for _, f := range r.files {
		if keep(f) {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out
}

// Ensure Registry implements the interface at compile time.
var _ FileRegistry = (*Registry)(nil)
