package parser_test

import (
	"testing"

	"github.com/briarscript/briar/internal/ast"
	"github.com/briarscript/briar/internal/lexer"
	"github.com/briarscript/briar/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, src string) *parser.Parser {
	t.Helper()
	toks, err := lexer.Lex(src)
	require.NoError(t, err)
	return parser.New(toks)
}

// parse("null").null(0) is a Success consuming exactly one token.
func TestExpressionNull(t *testing.T) {
	p := lex(t, "null")
	r := p.Expression(0)
	require.True(t, r.IsSuccess())
	assert.IsType(t, &ast.NullLit{}, r.Value())
	assert.Equal(t, 1, r.Pos())
}

// parse("? a : b") — an elvis tail applied directly is not itself a valid
// expression start (elvis needs a Cond expression before the `?`), so this
// traces the conventional form `cond ? a : b` instead, attached at its own
// cursor.
func TestExpressionElvis(t *testing.T) {
	p := lex(t, "cond ? a : b")
	r := p.Expression(0)
	require.True(t, r.IsSuccess())
	elvis, ok := r.Value().(*ast.Elvis)
	require.True(t, ok)
	assert.IsType(t, &ast.Call{}, elvis.Cond)
	assert.IsType(t, &ast.Call{}, elvis.Then)
	assert.IsType(t, &ast.Call{}, elvis.Else)
	assert.Equal(t, 5, r.Pos())
}

// parse("a.b.c").call(0) consumes every token, chaining the dotted tail.
func TestCallChain(t *testing.T) {
	p := lex(t, "a.b.c")
	r := p.Call(0)
	require.True(t, r.IsSuccess())
	call := r.Value()
	assert.Equal(t, "a", call.Name)
	require.NotNil(t, call.Tail)
	assert.Equal(t, "b", call.Tail.Name)
	require.NotNil(t, call.Tail.Tail)
	assert.Equal(t, "c", call.Tail.Tail.Name)
	assert.Nil(t, call.Tail.Tail.Tail)
	assert.Equal(t, 5, r.Pos())
}

func TestCallWithArgs(t *testing.T) {
	p := lex(t, "foo(1, 2)")
	r := p.Call(0)
	require.True(t, r.IsSuccess())
	call := r.Value()
	assert.Equal(t, "foo", call.Name)
	assert.True(t, call.HasArgs)
	assert.Len(t, call.Args, 2)
	assert.Equal(t, 6, r.Pos())
}

func TestSimpleArithmeticChain(t *testing.T) {
	p := lex(t, "1 + 2 * 3")
	r := p.Expression(0)
	require.True(t, r.IsSuccess())
	add, ok := r.Value().(*ast.Arithmetic)
	require.True(t, ok)
	assert.Equal(t, ast.ArithAdd, add.Kind)
	assert.IsType(t, &ast.NumberLit{}, add.Base)
	mul, ok := add.Rhs.(*ast.Arithmetic)
	require.True(t, ok)
	assert.Equal(t, ast.ArithMul, mul.Kind)
	assert.Equal(t, 5, r.Pos())
}

// "a == b && c" — since compareOp itself accepts "&&"/"||", the
// rhs of one comparison swallows the next comparison recursively rather
// than surfacing it through logicGroup's Groups slice; the chain nests via
// CmpRhs instead of flattening.
func TestLogicChainNestsThroughCompareOp(t *testing.T) {
	p := lex(t, "a == b && c")
	r := p.Expression(0)
	require.True(t, r.IsSuccess())
	outer, ok := r.Value().(*ast.Logic)
	require.True(t, ok)
	assert.Equal(t, ast.CmpEq, outer.CmpOp)
	assert.Empty(t, outer.Groups)

	inner, ok := outer.CmpRhs.(*ast.Logic)
	require.True(t, ok)
	assert.Equal(t, ast.CmpAnd, inner.CmpOp)
	assert.IsType(t, &ast.Call{}, inner.CmpRhs)
	assert.Equal(t, 5, r.Pos())
}

func TestListInitEmpty(t *testing.T) {
	p := lex(t, "[]")
	r := p.Expression(0)
	require.True(t, r.IsSuccess())
	list, ok := r.Value().(*ast.ListInit)
	require.True(t, ok)
	assert.Empty(t, list.Elements)
	assert.Equal(t, 2, r.Pos())
}

func TestMapInitWithEntries(t *testing.T) {
	p := lex(t, "{a: 1, b: 2}")
	r := p.Expression(0)
	require.True(t, r.IsSuccess())
	m, ok := r.Value().(*ast.MapInit)
	require.True(t, ok)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, 9, r.Pos())
}

func TestRangeExpression(t *testing.T) {
	p := lex(t, "1..10")
	r := p.Expression(0)
	require.True(t, r.IsSuccess())
	rng, ok := r.Value().(*ast.Range)
	require.True(t, ok)
	assert.False(t, rng.IsOut)
	assert.Equal(t, 3, r.Pos())
}
