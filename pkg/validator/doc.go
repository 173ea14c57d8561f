// Package validator checks tool parameters against their declared shape.
//
// Invariants:
// - Validation is pure: params are never modified and nothing is logged.
// - The first violation aborts the walk; errors are never accumulated.
// - Enum membership is checked only after the type check passes.
// - Nested objects accept undeclared properties; only the top level
//   rejects unknown names.
//
// Usage:
//
//	if err := validator.Validate(tool.Schema(), params); err != nil {
//		kind, _ := validator.KindOf(err)
//		...
//	}
package validator
