package validator

import (
	"github.com/harun/batai/pkg/schema"
)

// Validate checks params against a tool schema and returns the first
// violation as a *ValidationError, or nil.
//
// Order: required names in declaration order, then each supplied key in
// lexical order is checked for being declared and its value checked
// structurally before the next key is visited.
func Validate(s *schema.ToolSchema, params map[string]any) error {
	for _, name := range s.Required {
		if _, ok := params[name]; !ok {
			return missingRequired(name)
		}
	}

	for _, key := range schema.SortedKeys(params) {
		def, ok := s.Parameters[key]
		if !ok {
			return unknownParameter(key)
		}
		if err := validateParameter(key, params[key], def); err != nil {
			return err
		}
	}

	return nil
}

// ValidateValue checks a single value against a definition, reporting
// failures relative to path.
func ValidateValue(path string, value any, def schema.ParameterDefinition) error {
	if err := validateParameter(path, value, def); err != nil {
		return err
	}
	return nil
}

func validateParameter(path string, value any, def schema.ParameterDefinition) *ValidationError {
	kind := schema.KindOf(value)

	switch def.Type {
	case schema.TypeArray:
		if kind != schema.KindArray {
			return typeMismatch(path, def.Type, kind)
		}
		if def.Items != nil {
			itemDef := def.Items.ItemDefinition()
			for _, item := range schema.Elements(value) {
				if err := validateParameter(path+"[]", item, itemDef); err != nil {
					return err
				}
			}
		}

	case schema.TypeObject:
		if kind != schema.KindObject {
			return typeMismatch(path, def.Type, kind)
		}
		// Undeclared nested properties are accepted.
		for _, name := range schema.SortedKeys(def.Properties) {
			if prop, ok := schema.Property(value, name); ok {
				if err := validateParameter(path+"."+name, prop, def.Properties[name]); err != nil {
					return err
				}
			} else if def.IsRequired(name) {
				return missingProperty(path, name)
			}
		}

	default:
		if !kind.Matches(def.Type) {
			return typeMismatch(path, def.Type, kind)
		}
	}

	if def.Enum != nil && !inEnum(value, def.Enum) {
		return enumViolation(path, def.Enum)
	}

	return nil
}

func inEnum(value any, allowed []any) bool {
	for _, literal := range allowed {
		if schema.Equal(literal, value) {
			return true
		}
	}
	return false
}
