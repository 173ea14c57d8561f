package schema

// ParameterType is the declared kind of a parameter
type ParameterType string

const (
	TypeString  ParameterType = "string"
	TypeNumber  ParameterType = "number"
	TypeBoolean ParameterType = "boolean"
	TypeObject  ParameterType = "object"
	TypeArray   ParameterType = "array"
)

// AllTypes returns every supported parameter type
func AllTypes() []ParameterType {
	return []ParameterType{
		TypeString,
		TypeNumber,
		TypeBoolean,
		TypeObject,
		TypeArray,
	}
}

// IsValid reports whether t is one of the supported parameter types
func (t ParameterType) IsValid() bool {
	for _, valid := range AllTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// ParameterDefinition describes one parameter or nested field.
// Definitions nest to arbitrary depth through Items and Properties and
// must not be mutated once a schema is handed to a tool.
type ParameterDefinition struct {
	Type        ParameterType `json:"type" yaml:"type"`
	Description string        `json:"description" yaml:"description"`
	Enum        []any         `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Items describes array elements. Only Type and Description are
	// applied to each element.
	Items *ParameterDefinition `json:"items,omitempty" yaml:"items,omitempty"`

	Properties map[string]ParameterDefinition `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string                       `json:"required,omitempty" yaml:"required,omitempty"`
}

// ToolSchema is the declared contract of a single tool
type ToolSchema struct {
	Name        string                         `json:"name" yaml:"name"`
	Description string                         `json:"description" yaml:"description"`
	Parameters  map[string]ParameterDefinition `json:"parameters" yaml:"parameters"`
	Required    []string                       `json:"required" yaml:"required"`
	Category    string                         `json:"category,omitempty" yaml:"category,omitempty"`
	Version     string                         `json:"version,omitempty" yaml:"version,omitempty"`
}

// Parameter returns the definition of a top-level parameter
func (s *ToolSchema) Parameter(name string) (ParameterDefinition, bool) {
	def, ok := s.Parameters[name]
	return def, ok
}

// IsRequired reports whether a top-level parameter is required
func (s *ToolSchema) IsRequired(name string) bool {
	return contains(s.Required, name)
}

// IsRequired reports whether a nested property is required
func (d ParameterDefinition) IsRequired(property string) bool {
	return contains(d.Required, property)
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
