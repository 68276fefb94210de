package xlref

import (
	"fmt"
	"iter"
	"reflect"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExpressionEvaluator evaluates template expressions.
type ExpressionEvaluator interface {
	Evaluate(expression string, data map[string]any) (any, error)
	IsConditionTrue(condition string, data map[string]any) (bool, error)
}

// exprEvaluator implements ExpressionEvaluator using expr-lang/expr.
type exprEvaluator struct {
	cache sync.Map // expression string → compiled *vm.Program
}

// NewExpressionEvaluator creates a new expression evaluator backed by expr-lang/expr.
func NewExpressionEvaluator() ExpressionEvaluator {
	return &exprEvaluator{}
}

func (e *exprEvaluator) Evaluate(expression string, data map[string]any) (any, error) {
	if expression == "" {
		return nil, nil
	}
	program, err := e.compile(expression, data)
	if err != nil {
		return nil, &EvaluationError{Expression: expression, Err: fmt.Errorf("compile: %w", err)}
	}
	result, err := expr.Run(program, data)
	if err != nil {
		return nil, &EvaluationError{Expression: expression, Err: err}
	}
	return result, nil
}

func (e *exprEvaluator) IsConditionTrue(condition string, data map[string]any) (bool, error) {
	result, err := e.Evaluate(condition, data)
	if err != nil {
		return false, err
	}
	return conditionResult(condition, result)
}

func (e *exprEvaluator) compile(expression string, env map[string]any) (*vm.Program, error) {
	if cached, ok := e.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	e.cache.Store(expression, program)
	return program, nil
}

// conditionResult accepts only a bool result. nil, such as an undefined
// variable, is an error like any other non-bool value.
func conditionResult(condition string, result any) (bool, error) {
	b, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: condition,
			Err:        fmt.Errorf("%w: got %T", ErrNotBoolean, result),
		}
	}
	return b, nil
}

// IsConditionTrue evaluates condition against the context variables and
// requires a boolean answer.
func IsConditionTrue(ev ExpressionEvaluator, condition string, ctx *Context) (bool, error) {
	result, err := ev.Evaluate(condition, ctx.ToMap())
	if err != nil {
		return false, err
	}
	return conditionResult(condition, result)
}

// ToCollection evaluates expression and returns its items. Slices, arrays
// and iter.Seq[any] values are accepted; anything else is a *TemplateError.
func ToCollection(ev ExpressionEvaluator, expression string, ctx *Context) ([]any, error) {
	val, err := ev.Evaluate(expression, ctx.ToMap())
	if err != nil {
		return nil, err
	}
	items, ok := toSlice(val)
	if !ok {
		return nil, &TemplateError{
			Expression: expression,
			Err:        fmt.Errorf("%w: got %T", ErrNotCollection, val),
		}
	}
	return items, nil
}

// toSlice converts any iterable value to a []any slice.
func toSlice(val any) ([]any, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case iter.Seq[any]:
		return collectSeq(v), true
	case func(func(any) bool):
		return collectSeq(v), true
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			result[i] = v.Index(i).Interface()
		}
		return result, true
	default:
		return nil, false
	}
}

func collectSeq(seq iter.Seq[any]) []any {
	items := []any{}
	for item := range seq {
		items = append(items, item)
	}
	return items
}
