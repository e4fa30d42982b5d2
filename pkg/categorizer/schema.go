package categorizer

import (
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// SuggestedCategories are the labels the schema describes. They are a hint
// to the model, not an enum: any returned category string is accepted.
var SuggestedCategories = []string{
	"Document", "Image", "Code", "Archive", "Audio", "Video", "Spreadsheet", "Presentation", "Other",
}

// FileSchema describes the expected response: an array of objects with the
// required string fields fileName, category and summary.
func FileSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Array,
		Items: &jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"fileName": {
					Type:        jsonschema.String,
					Description: "The original file name provided in the input list.",
				},
				"category": {
					Type:        jsonschema.String,
					Description: "A relevant category for the file, e.g., " + quotedList(SuggestedCategories) + ".",
				},
				"summary": {
					Type:        jsonschema.String,
					Description: "A very short, one-sentence summary of the file's likely content based on its name.",
				},
			},
			Required:             []string{"fileName", "category", "summary"},
			AdditionalProperties: false,
		},
	}
}

// wrappedFileSchema puts the array under a "files" key for services that
// require an object at the top level.
func wrappedFileSchema(items *jsonschema.Definition) *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"files": *items,
		},
		Required:             []string{"files"},
		AdditionalProperties: false,
	}
}

func quotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}
