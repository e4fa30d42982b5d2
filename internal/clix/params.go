package clix

import (
	"strings"

	"github.com/spf13/pflag"

	"triage/internal/fileingest"
	"triage/internal/models"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads --limit/--offset. A non-positive limit means no limit.
func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// Page applies the pagination to a slice.
func Page[T any](items []T, p PaginationParams) []T {
	if p.Offset >= len(items) {
		return items[:0]
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

// ParseCategory reads --category; empty or blank selects "All".
func ParseCategory(flags *pflag.FlagSet) string {
	category, _ := flags.GetString("category")
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, models.CategoryAll) {
		return models.CategoryAll
	}
	return category
}

// ParseScanOptions reads --hidden and --max-files, falling back to the
// configured defaults for flags the user did not set.
func ParseScanOptions(flags *pflag.FlagSet, defaults fileingest.Options) fileingest.Options {
	opts := defaults
	if flags.Changed("hidden") {
		opts.IncludeHidden, _ = flags.GetBool("hidden")
	}
	if flags.Changed("max-files") {
		opts.MaxFiles, _ = flags.GetInt("max-files")
	}
	return opts
}
