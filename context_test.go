package xlref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvaluator struct {
	result any
	calls  []string
}

func (s *stubEvaluator) Evaluate(expression string, _ map[string]any) (any, error) {
	s.calls = append(s.calls, expression)
	return s.result, nil
}

func (s *stubEvaluator) IsConditionTrue(condition string, data map[string]any) (bool, error) {
	v, err := s.Evaluate(condition, data)
	b, _ := v.(bool)
	return b, err
}

func TestContext_PutGetVar(t *testing.T) {
	ctx := NewContext(map[string]any{"x": 10})
	assert.Equal(t, 10, ctx.GetVar("x"))

	ctx.PutVar("y", "hello")
	assert.Equal(t, "hello", ctx.GetVar("y"))
	assert.Nil(t, ctx.GetVar("z"))
}

func TestContext_RemoveVar(t *testing.T) {
	ctx := NewContext(map[string]any{"x": 10})
	ctx.RemoveVar("x")
	assert.False(t, ctx.ContainsVar("x"))
	assert.Nil(t, ctx.GetVar("x"))
}

func TestContext_ContainsVar(t *testing.T) {
	ctx := NewContext(map[string]any{"x": nil})
	assert.True(t, ctx.ContainsVar("x"))
	assert.False(t, ctx.ContainsVar("y"))
}

func TestContext_CopiesInput(t *testing.T) {
	vars := map[string]any{"x": 1}
	ctx := NewContext(vars)
	ctx.PutVar("x", 2)
	ctx.PutVar("y", 3)
	assert.Equal(t, 1, vars["x"])
	assert.NotContains(t, vars, "y")
}

func TestContext_ToMap(t *testing.T) {
	ctx := NewContext(map[string]any{"x": 10})
	assert.Equal(t, map[string]any{"x": 10}, ctx.ToMap())

	var nilCtx *Context
	assert.Empty(t, nilCtx.ToMap())
}

func TestContext_Evaluate(t *testing.T) {
	ctx := NewContext(map[string]any{
		"e": testEmployee{Name: "Bob", Payment: 3000},
	})
	result, err := ctx.Evaluate("e.Name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", result)

	ok, err := ctx.IsConditionTrue("e.Payment >= 3000")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContext_Collection(t *testing.T) {
	ctx := NewContext(map[string]any{"names": []string{"a", "b"}})
	items, err := ctx.Collection("names")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, items)
}

func TestContext_WithEvaluator(t *testing.T) {
	stub := &stubEvaluator{result: "yes"}
	ctx := NewContext(nil, WithEvaluator(stub))

	_, err := ctx.IsConditionTrue("anything")
	assert.ErrorIs(t, err, ErrNotBoolean)

	stub.result = true
	ok, err := ctx.IsConditionTrue("anything")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"anything", "anything"}, stub.calls)
}

func TestContext_NilReceiver(t *testing.T) {
	var ctx *Context

	result, err := ctx.Evaluate("1")
	require.NoError(t, err)
	assert.Equal(t, 1, result)

	ok, err := ctx.IsConditionTrue("true")
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := ctx.Collection("[1, 2]")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, items)

	assert.Nil(t, ctx.GetVar("x"))
	assert.False(t, ctx.ContainsVar("x"))
	assert.NotPanics(t, func() { ctx.RemoveVar("x") })
	assert.Empty(t, ctx.ToMap())
}

func TestContext_ZeroValue(t *testing.T) {
	var ctx Context
	ctx.PutVar("x", 2)
	result, err := ctx.Evaluate("x * 3")
	require.NoError(t, err)
	assert.Equal(t, 6, result)
}
