package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage/internal/models"
)

func TestParseResults(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []models.CategorizationResult
		wantErr  bool
	}{
		{
			name:     "Bare Array",
			text:     `[{"fileName":"a.go","category":"Code","summary":"Go source."}]`,
			expected: []models.CategorizationResult{{FileName: "a.go", Category: "Code", Summary: "Go source."}},
		},
		{
			name:     "Wrapped Object",
			text:     `{"files":[{"fileName":"a.zip","category":"Archive","summary":"An archive."}]}`,
			expected: []models.CategorizationResult{{FileName: "a.zip", Category: "Archive", Summary: "An archive."}},
		},
		{
			name:     "Surrounding Whitespace",
			text:     "\n\t  []  \n",
			expected: []models.CategorizationResult{},
		},
		{
			name:    "Empty",
			text:    "   ",
			wantErr: true,
		},
		{
			name:    "Missing Summary",
			text:    `[{"fileName":"a.go","category":"Code"}]`,
			wantErr: true,
		},
		{
			name:    "Wrong Field Type",
			text:    `[{"fileName":"a.go","category":7,"summary":"x"}]`,
			wantErr: true,
		},
		{
			name:    "Object Without Files",
			text:    `{"results":[]}`,
			wantErr: true,
		},
		{
			name:    "Truncated",
			text:    `[{"fileName":"a.go",`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := ParseResults(tc.text)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrCategorization)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, results)
		})
	}
}
