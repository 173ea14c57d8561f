package text

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/harun/batai/pkg/validator"
)

// Stats is the result of textStats
type Stats struct {
	Characters int  `json:"characters"`
	Lines      int  `json:"lines"`
	Words      *int `json:"words,omitempty"`
}

// NewStats creates the textStats tool. It uses the result-wrapped
// variant with a flat parameter table.
func NewStats() *toolexecutor.FlatTool {
	return &toolexecutor.FlatTool{
		Name:        "textStats",
		Description: "Counts characters and lines of a text, and optionally its words",
		Parameters: validator.FlatTable{
			"text":  {Type: schema.TypeString, Description: "The text to measure", Required: true},
			"words": {Type: schema.TypeBoolean, Description: "Also count whitespace-separated words"},
		},
		Handler: stats,
	}
}

func stats(ctx context.Context, params map[string]any) (any, error) {
	text, _ := schema.String(params["text"])

	result := Stats{Characters: utf8.RuneCountInString(text)}
	if text != "" {
		result.Lines = strings.Count(text, "\n") + 1
	}

	if countWords, _ := schema.Bool(params["words"]); countWords {
		words := len(strings.Fields(text))
		result.Words = &words
	}
	return result, nil
}
