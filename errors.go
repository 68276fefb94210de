package xlref

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBoolean is returned when a condition evaluates to something other than a bool.
	ErrNotBoolean = errors.New("condition result is not a boolean value")

	// ErrNotCollection is returned when an items expression does not evaluate to a collection.
	ErrNotCollection = errors.New("expression is not a collection")

	// ErrPropertyNotFound is returned when an object has no property with the requested name.
	ErrPropertyNotFound = errors.New("property not found")
)

// EvaluationError wraps a failure to evaluate a template expression.
type EvaluationError struct {
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %q: %v", e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// TemplateError reports an expression whose value cannot be used where the
// template puts it, such as a collection expression yielding a scalar.
type TemplateError struct {
	Expression string
	Err        error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template expression %q: %v", e.Expression, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// PropertyError wraps a failed property read or write on an object.
type PropertyError struct {
	Property string
	Object   any
	Err      error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property %q of %T: %v", e.Property, e.Object, e.Err)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}
