package validator

import "github.com/harun/batai/pkg/schema"

// Strategy validates a parameter map against a fixed declaration
type Strategy interface {
	Name() string
	Validate(params map[string]any) error
}

// Recursive validates against a full ToolSchema: nested objects, array
// items, enums and unknown top-level parameters.
type Recursive struct {
	Schema *schema.ToolSchema
}

// NewRecursive creates the schema-driven strategy
func NewRecursive(s *schema.ToolSchema) *Recursive {
	return &Recursive{Schema: s}
}

func (r *Recursive) Name() string { return "recursive" }

func (r *Recursive) Validate(params map[string]any) error {
	return Validate(r.Schema, params)
}

// Flat validates required presence and primitive kinds only
type Flat struct {
	Table FlatTable
}

// NewFlat creates the table-driven strategy
func NewFlat(table FlatTable) *Flat {
	return &Flat{Table: table}
}

func (f *Flat) Name() string { return "flat" }

func (f *Flat) Validate(params map[string]any) error {
	return ValidateFlat(f.Table, params)
}

var (
	_ Strategy = (*Recursive)(nil)
	_ Strategy = (*Flat)(nil)
)
