package validator

import (
	"fmt"

	"github.com/harun/batai/pkg/schema"
)

// FlatParameter is one entry of a flat parameter table
type FlatParameter struct {
	Type        schema.ParameterType `json:"type" yaml:"type"`
	Description string               `json:"description" yaml:"description"`
	Required    bool                 `json:"required,omitempty" yaml:"required,omitempty"`
}

// FlatTable maps parameter names to flat definitions. It has no nesting,
// no enums and no unknown-parameter rule.
type FlatTable map[string]FlatParameter

// ValidateFlat checks required presence and the runtime kind of every
// declared parameter. Entries are visited in lexical order.
func ValidateFlat(table FlatTable, params map[string]any) error {
	for _, name := range schema.SortedKeys(table) {
		param := table[name]
		value, present := params[name]
		if !present {
			if param.Required {
				return missingRequired(name)
			}
			continue
		}

		if kind := schema.KindOf(value); !kind.Matches(param.Type) {
			return &ValidationError{
				Kind: TypeMismatch,
				Path: name,
				Message: fmt.Sprintf("Invalid type for parameter %s. Expected %s, got %s",
					name, param.Type, kind),
			}
		}
	}
	return nil
}

// ToolSchema describes the table as a ToolSchema so flat tools can be
// listed and exported next to schema-declared tools.
func (t FlatTable) ToolSchema(name, description string) *schema.ToolSchema {
	s := &schema.ToolSchema{
		Name:        name,
		Description: description,
		Parameters:  make(map[string]schema.ParameterDefinition, len(t)),
		Required:    []string{},
	}
	for _, param := range schema.SortedKeys(t) {
		s.Parameters[param] = schema.ParameterDefinition{
			Type:        t[param].Type,
			Description: t[param].Description,
		}
		if t[param].Required {
			s.Required = append(s.Required, param)
		}
	}
	return s
}
