package text

import (
	"context"
	"strings"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/toolexecutor"
)

// Case conversions applied by textJoin
const (
	CaseUpper    = "upper"
	CaseLower    = "lower"
	CasePreserve = "preserve"
)

// DefaultSeparator joins parts when no options are given
const DefaultSeparator = " "

// JoinSchema is the schema of the textJoin tool
func JoinSchema() *schema.ToolSchema {
	return &schema.ToolSchema{
		Name:        "textJoin",
		Description: "Joins text parts with a separator and optional trimming and case conversion",
		Category:    Category,
		Version:     Version,
		Parameters: map[string]schema.ParameterDefinition{
			"parts": {
				Type:        schema.TypeArray,
				Description: "Text parts to join, in order",
				Items:       &schema.ParameterDefinition{Type: schema.TypeString},
			},
			"options": {
				Type:        schema.TypeObject,
				Description: "Join options",
				Properties: map[string]schema.ParameterDefinition{
					"separator": {Type: schema.TypeString, Description: "Inserted between parts"},
					"trim":      {Type: schema.TypeBoolean, Description: "Trim whitespace around each part"},
					"case": {
						Type:        schema.TypeString,
						Description: "Case conversion applied to the result",
						Enum:        []any{CaseUpper, CaseLower, CasePreserve},
					},
				},
				Required: []string{"separator"},
			},
		},
		Required: []string{"parts"},
	}
}

// NewJoin creates the textJoin tool
func NewJoin() toolexecutor.Tool {
	return toolexecutor.NewDefinition(JoinSchema(), join)
}

func join(ctx context.Context, params map[string]any) (any, error) {
	separator := DefaultSeparator
	trim := false
	conversion := CasePreserve

	if options, ok := params["options"]; ok {
		if v, ok := schema.Property(options, "separator"); ok {
			separator, _ = schema.String(v)
		}
		if v, ok := schema.Property(options, "trim"); ok {
			trim, _ = schema.Bool(v)
		}
		if v, ok := schema.Property(options, "case"); ok {
			conversion, _ = schema.String(v)
		}
	}

	elements := schema.Elements(params["parts"])
	parts := make([]string, 0, len(elements))
	for _, element := range elements {
		part, _ := schema.String(element)
		if trim {
			part = strings.TrimSpace(part)
		}
		parts = append(parts, part)
	}

	joined := strings.Join(parts, separator)
	switch conversion {
	case CaseUpper:
		joined = strings.ToUpper(joined)
	case CaseLower:
		joined = strings.ToLower(joined)
	}
	return joined, nil
}
