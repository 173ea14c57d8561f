package text

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/toolexecutor"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Operations supported by textProcessor, in schema order
const (
	OpUppercase  = "uppercase"
	OpLowercase  = "lowercase"
	OpTrim       = "trim"
	OpCapitalize = "capitalize"
)

// ProcessorSchema is the schema of the textProcessor tool
func ProcessorSchema() *schema.ToolSchema {
	return &schema.ToolSchema{
		Name:        "textProcessor",
		Description: "Processes text with various operations like case conversion, trimming, etc.",
		Category:    Category,
		Version:     Version,
		Parameters: map[string]schema.ParameterDefinition{
			"text": {
				Type:        schema.TypeString,
				Description: "The input text to process",
			},
			"operation": {
				Type:        schema.TypeString,
				Description: "The operation to perform on the text",
				Enum:        []any{OpUppercase, OpLowercase, OpTrim, OpCapitalize},
			},
		},
		Required: []string{"text", "operation"},
	}
}

// NewProcessor creates the textProcessor tool
func NewProcessor() toolexecutor.Tool {
	return toolexecutor.NewDefinition(ProcessorSchema(), process)
}

func process(ctx context.Context, params map[string]any) (any, error) {
	text, _ := schema.String(params["text"])
	operation, _ := schema.String(params["operation"])

	switch operation {
	case OpUppercase:
		return upper(text), nil
	case OpLowercase:
		return lower(text), nil
	case OpTrim:
		return strings.TrimSpace(text), nil
	case OpCapitalize:
		return capitalize(text), nil
	default:
		return nil, fmt.Errorf("unsupported operation: %s", operation)
	}
}

// Casers hold state, so each call gets its own. Full Unicode mappings
// apply, e.g. "ß" upper-cases to "SS".
func upper(s string) string { return cases.Upper(language.Und).String(s) }

func lower(s string) string { return cases.Lower(language.Und).String(s) }

// capitalize upper-cases the first character and lower-cases the rest
func capitalize(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return upper(s[:size]) + lower(s[size:])
}
