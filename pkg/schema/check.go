package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidSchema is wrapped by every error returned from Check
var ErrInvalidSchema = errors.New("invalid tool schema")

// Check asserts the structural invariants of a schema that the runtime
// validator assumes but never enforces: known types, required names that
// refer to declared parameters or properties, enum literals that match
// their type, and shape fields used only on the types they apply to.
// The exported JSON Schema document must also compile.
func (s *ToolSchema) Check() error {
	if s == nil {
		return fmt.Errorf("%w: schema is nil", ErrInvalidSchema)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: tool name cannot be empty", ErrInvalidSchema)
	}
	if strings.TrimSpace(s.Description) == "" {
		return fmt.Errorf("%w: tool %s: description cannot be empty", ErrInvalidSchema, s.Name)
	}

	seen := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		if seen[name] {
			return fmt.Errorf("%w: tool %s: required parameter %s listed twice", ErrInvalidSchema, s.Name, name)
		}
		seen[name] = true
		if _, ok := s.Parameters[name]; !ok {
			return fmt.Errorf("%w: tool %s: required parameter %s is not declared", ErrInvalidSchema, s.Name, name)
		}
	}

	for _, name := range SortedKeys(s.Parameters) {
		if name == "" {
			return fmt.Errorf("%w: tool %s: parameter name cannot be empty", ErrInvalidSchema, s.Name)
		}
		if err := checkDefinition(name, s.Parameters[name]); err != nil {
			return fmt.Errorf("%w: tool %s: %v", ErrInvalidSchema, s.Name, err)
		}
	}

	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s.JSONSchema())); err != nil {
		return fmt.Errorf("%w: tool %s: json schema: %v", ErrInvalidSchema, s.Name, err)
	}

	return nil
}

func checkDefinition(path string, def ParameterDefinition) error {
	if !def.Type.IsValid() {
		return fmt.Errorf("parameter %s has invalid type %q", path, def.Type)
	}

	if def.Enum != nil {
		if len(def.Enum) == 0 {
			return fmt.Errorf("parameter %s declares an empty enum", path)
		}
		for _, literal := range def.Enum {
			if !KindOf(literal).Matches(def.Type) {
				return fmt.Errorf("parameter %s enum value %v is not of type %s", path, literal, def.Type)
			}
		}
	}

	if def.Items != nil {
		if def.Type != TypeArray {
			return fmt.Errorf("parameter %s declares items but is of type %s", path, def.Type)
		}
		if !def.Items.Type.IsValid() {
			return fmt.Errorf("parameter %s[] has invalid type %q", path, def.Items.Type)
		}
	}

	if def.Type != TypeObject {
		if len(def.Properties) > 0 || len(def.Required) > 0 {
			return fmt.Errorf("parameter %s declares properties but is of type %s", path, def.Type)
		}
		return nil
	}

	for _, name := range def.Required {
		if _, ok := def.Properties[name]; !ok {
			return fmt.Errorf("parameter %s requires undeclared property %s", path, name)
		}
	}

	for _, name := range SortedKeys(def.Properties) {
		if err := checkDefinition(path+"."+name, def.Properties[name]); err != nil {
			return err
		}
	}

	return nil
}
