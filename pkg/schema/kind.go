package schema

import (
	"encoding/json"
	"reflect"
)

// Kind is the runtime shape of an input value
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindNull    Kind = "null"
	KindOther   Kind = "other"
)

// KindOf inspects a decoded value and classifies it.
//
// Maps with string keys are objects, slices and arrays are arrays, every
// Go integer and float type (and json.Number) is a number. Pointers are
// followed; a nil pointer, nil map or untyped nil is null.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBoolean
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return KindNumber
	case map[string]any:
		if v.(map[string]any) == nil {
			return KindNull
		}
		return KindObject
	case []any:
		return KindArray
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return KindNull
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Slice:
		if rv.IsNil() {
			return KindNull
		}
		return KindArray
	case reflect.Array:
		return KindArray
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return KindOther
		}
		if rv.IsNil() {
			return KindNull
		}
		return KindObject
	default:
		return KindOther
	}
}

// Matches reports whether a runtime kind satisfies a declared type
func (k Kind) Matches(t ParameterType) bool {
	return string(k) == string(t)
}

// Elements returns the elements of an array-kind value
func Elements(v any) []any {
	if items, ok := v.([]any); ok {
		return items
	}

	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items
}

// Property looks up a key in an object-kind value
func Property(v any, name string) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		value, exists := m[name]
		return value, exists
	}

	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	value := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
	if !value.IsValid() {
		return nil, false
	}
	return value.Interface(), true
}

// Number converts a number-kind value to float64
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}

	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// String converts a string-kind value to string
func String(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// Bool converts a boolean-kind value to bool
func Bool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Bool {
		return false, false
	}
	return rv.Bool(), true
}

// Equal compares two literal values. Numbers compare by value regardless
// of their Go type; values of uncomparable types are never equal.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	switch {
	case ka == KindNumber && kb == KindNumber:
		x, okA := Number(a)
		y, okB := Number(b)
		return okA && okB && x == y
	case ka == KindString && kb == KindString:
		return indirect(reflect.ValueOf(a)).String() == indirect(reflect.ValueOf(b)).String()
	case ka == KindBoolean && kb == KindBoolean:
		return indirect(reflect.ValueOf(a)).Bool() == indirect(reflect.ValueOf(b)).Bool()
	}

	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
