package xlref

import "maps"

// Context holds the variables visible to template expressions.
type Context struct {
	vars      map[string]any
	evaluator ExpressionEvaluator
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithEvaluator sets a custom expression evaluator.
func WithEvaluator(ev ExpressionEvaluator) ContextOption {
	return func(c *Context) {
		c.evaluator = ev
	}
}

// NewContext creates a new Context with the given variables and options.
// The map is copied; later PutVar calls do not touch the caller's map.
func NewContext(vars map[string]any, opts ...ContextOption) *Context {
	c := &Context{
		vars:      make(map[string]any, len(vars)),
		evaluator: NewExpressionEvaluator(),
	}
	maps.Copy(c.vars, vars)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetVar returns a variable value, or nil when it is not set.
func (c *Context) GetVar(name string) any {
	if c == nil {
		return nil
	}
	return c.vars[name]
}

// PutVar sets a variable.
func (c *Context) PutVar(name string, value any) {
	if c.vars == nil {
		c.vars = map[string]any{}
	}
	c.vars[name] = value
}

// RemoveVar removes a variable.
func (c *Context) RemoveVar(name string) {
	if c == nil {
		return
	}
	delete(c.vars, name)
}

// ContainsVar returns true if the variable is set.
func (c *Context) ContainsVar(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.vars[name]
	return ok
}

// ToMap returns the variables as the environment for expression evaluation.
// A nil Context yields an empty map. Read-only methods accept a nil Context.
func (c *Context) ToMap() map[string]any {
	if c == nil || c.vars == nil {
		return map[string]any{}
	}
	return c.vars
}

// Evaluate evaluates an expression with the context's evaluator.
func (c *Context) Evaluate(expression string) (any, error) {
	return c.expressionEvaluator().Evaluate(expression, c.ToMap())
}

// IsConditionTrue evaluates a boolean condition with the context's evaluator.
func (c *Context) IsConditionTrue(condition string) (bool, error) {
	return IsConditionTrue(c.expressionEvaluator(), condition, c)
}

// Collection evaluates an items expression with the context's evaluator.
func (c *Context) Collection(expression string) ([]any, error) {
	return ToCollection(c.expressionEvaluator(), expression, c)
}

// expressionEvaluator returns the configured evaluator. A nil Context, or
// one built as a zero value, falls back to a fresh expr-lang evaluator.
func (c *Context) expressionEvaluator() ExpressionEvaluator {
	if c == nil || c.evaluator == nil {
		return NewExpressionEvaluator()
	}
	return c.evaluator
}
