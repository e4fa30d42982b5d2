package categorizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"triage/internal/models"
)

type rawResult struct {
	FileName *string `json:"fileName"`
	Category *string `json:"category"`
	Summary  *string `json:"summary"`
}

// ParseResults decodes the trimmed response text. It accepts a bare array
// or an object carrying the array under "files". Every item must carry the
// three required string fields.
func ParseResults(text string) ([]models.CategorizationResult, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrCategorization)
	}

	var items []rawResult
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &items); err != nil {
			return nil, fmt.Errorf("%w: failed to parse response as JSON: %v\nResponse content: %s", ErrCategorization, err, content)
		}
	} else {
		var wrapped struct {
			Files *[]rawResult `json:"files"`
		}
		if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: failed to parse response as JSON: %v\nResponse content: %s", ErrCategorization, err, content)
		}
		if wrapped.Files == nil {
			return nil, fmt.Errorf("%w: response is neither an array nor an object with \"files\"\nResponse content: %s", ErrCategorization, content)
		}
		items = *wrapped.Files
	}

	results := make([]models.CategorizationResult, 0, len(items))
	for i, item := range items {
		if item.FileName == nil || item.Category == nil || item.Summary == nil {
			return nil, fmt.Errorf("%w: item %d is missing a required field (fileName, category, summary)", ErrCategorization, i)
		}
		results = append(results, models.CategorizationResult{
			FileName: *item.FileName,
			Category: *item.Category,
			Summary:  *item.Summary,
		})
	}
	return results, nil
}
