package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harun/batai/pkg/schema"
)

// ErrorKind classifies a validation failure
type ErrorKind string

const (
	MissingRequiredParameter ErrorKind = "MissingRequiredParameter"
	UnknownParameter         ErrorKind = "UnknownParameter"
	TypeMismatch             ErrorKind = "TypeMismatch"
	MissingNestedProperty    ErrorKind = "MissingNestedProperty"
	EnumViolation            ErrorKind = "EnumViolation"
)

// Sentinels matched by ValidationError through errors.Is
var (
	ErrMissingRequiredParameter = errors.New("missing required parameter")
	ErrUnknownParameter         = errors.New("unknown parameter")
	ErrTypeMismatch             = errors.New("type mismatch")
	ErrMissingNestedProperty    = errors.New("missing nested property")
	ErrEnumViolation            = errors.New("enum violation")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case MissingRequiredParameter:
		return ErrMissingRequiredParameter
	case UnknownParameter:
		return ErrUnknownParameter
	case TypeMismatch:
		return ErrTypeMismatch
	case MissingNestedProperty:
		return ErrMissingNestedProperty
	case EnumViolation:
		return ErrEnumViolation
	}
	return nil
}

// ValidationError is the first violation found while validating parameters
type ValidationError struct {
	Kind    ErrorKind
	Path    string // dotted/bracketed locator, e.g. config.retries[]
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind.sentinel()
}

// KindOf extracts the validation kind from an error chain
func KindOf(err error) (ErrorKind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return "", false
}

func missingRequired(name string) *ValidationError {
	return &ValidationError{
		Kind:    MissingRequiredParameter,
		Path:    name,
		Message: fmt.Sprintf("Missing required parameter: %s", name),
	}
}

func unknownParameter(name string) *ValidationError {
	return &ValidationError{
		Kind:    UnknownParameter,
		Path:    name,
		Message: fmt.Sprintf("Unknown parameter: %s", name),
	}
}

func typeMismatch(path string, def schema.ParameterType, got schema.Kind) *ValidationError {
	var msg string
	switch def {
	case schema.TypeArray:
		msg = fmt.Sprintf("Parameter %s must be an array", path)
	case schema.TypeObject:
		msg = fmt.Sprintf("Parameter %s must be an object", path)
	default:
		msg = fmt.Sprintf("Parameter %s must be of type %s, got %s", path, def, got)
	}
	return &ValidationError{Kind: TypeMismatch, Path: path, Message: msg}
}

func missingProperty(path, property string) *ValidationError {
	return &ValidationError{
		Kind:    MissingNestedProperty,
		Path:    path + "." + property,
		Message: fmt.Sprintf("Missing required property %s in parameter %s", property, path),
	}
}

func enumViolation(path string, allowed []any) *ValidationError {
	values := make([]string, len(allowed))
	for i, v := range allowed {
		values[i] = fmt.Sprint(v)
	}
	return &ValidationError{
		Kind:    EnumViolation,
		Path:    path,
		Message: fmt.Sprintf("Parameter %s must be one of: %s", path, strings.Join(values, ", ")),
	}
}
