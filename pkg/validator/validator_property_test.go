package validator

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func sameOutcome(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

// TestValidateProperties checks validator invariants over generated input.
func TestValidateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("validation is idempotent", prop.ForAll(
		func(text string, operation string) bool {
			s := textSchema()
			params := map[string]any{"text": text, "operation": operation}
			return sameOutcome(Validate(s, params), Validate(s, params))
		},
		gen.AnyString(),
		gen.OneConstOf("uppercase", "lowercase", "trim", "capitalize", "invalid", ""),
	))

	properties.Property("missing required parameter is reported first", prop.ForAll(
		func(key string, value int) bool {
			err := Validate(textSchema(), map[string]any{key: value, "operation": value})
			kind, ok := KindOf(err)
			return ok && kind == MissingRequiredParameter && err.Error() == "Missing required parameter: text"
		},
		gen.Identifier().SuchThat(func(k string) bool { return k != "text" && k != "operation" }),
		gen.Int(),
	))

	properties.Property("undeclared keys are rejected by name", prop.ForAll(
		func(key string) bool {
			err := Validate(textSchema(), map[string]any{
				"text":      "hello",
				"operation": "trim",
				key:         true,
			})
			verr, ok := err.(*ValidationError)
			return ok && verr.Kind == UnknownParameter && verr.Path == key
		},
		gen.Identifier().SuchThat(func(k string) bool { return k != "text" && k != "operation" }),
	))

	properties.Property("string parameters reject numbers", prop.ForAll(
		func(n float64) bool {
			err := Validate(textSchema(), map[string]any{"text": n, "operation": "trim"})
			verr, ok := err.(*ValidationError)
			return ok && verr.Kind == TypeMismatch &&
				verr.Message == "Parameter text must be of type string, got number"
		},
		gen.Float64(),
	))

	properties.Property("a non-string item fails at the item path", prop.ForAll(
		func(items []string, at int, bad int) bool {
			tags := make([]any, 0, len(items)+1)
			for _, item := range items {
				tags = append(tags, item)
			}
			at = at % (len(tags) + 1)
			tags = append(tags[:at], append([]any{bad}, tags[at:]...)...)

			err := Validate(nestedSchema(), map[string]any{"tags": tags})
			verr, ok := err.(*ValidationError)
			return ok && verr.Kind == TypeMismatch && verr.Path == "tags[]"
		},
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(0, 100),
		gen.Int(),
	))

	properties.Property("flat and recursive agree on valid primitive input", prop.ForAll(
		func(text string) bool {
			params := map[string]any{"text": text, "operation": "lowercase"}
			flat := NewFlat(FlatTable{
				"text":      {Type: "string", Required: true},
				"operation": {Type: "string", Required: true},
			})
			return Validate(textSchema(), params) == nil && flat.Validate(params) == nil
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
