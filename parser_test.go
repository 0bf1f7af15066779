package propscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) *Ast {
	t.Helper()
	ast, err := Parse(LexBytes([]byte(src)))
	require.NoError(t, err)
	require.NotNil(t, ast)
	return ast
}

func TestParseSimpleAssignment(t *testing.T) {
	ast := parseSrc(t, "x = 1\n")

	require.Len(t, ast.Parents, 1)
	eq := ast.node(ast.Parents[0])
	require.Equal(t, NodeOp, eq.Kind)
	assert.Equal(t, OpEqual, eq.Op.Type)

	left := ast.node(eq.Op.Left)
	assert.Equal(t, NodeID, left.Kind)
	assert.Equal(t, "x", left.ID.Name)

	right := ast.node(eq.Op.Right)
	assert.Equal(t, NodeNumber, right.Kind)
	assert.Equal(t, int32(1), right.Number.IntVal)
}

func TestParsePrecedenceClimbsCorrectly(t *testing.T) {
	// 1 + 2 * 3 should tree as 1 + (2 * 3): the mult binds tighter and
	// ends up nested in the add's right spine.
	ast := parseSrc(t, "x = 1 + 2 * 3\n")

	eq := ast.node(ast.Parents[0])
	rhs := ast.node(eq.Op.Right)
	require.Equal(t, NodeOp, rhs.Kind)
	assert.Equal(t, OpAdd, rhs.Op.Type)

	left := ast.node(rhs.Op.Left)
	assert.Equal(t, NodeNumber, left.Kind)
	assert.Equal(t, int32(1), left.Number.IntVal)

	right := ast.node(rhs.Op.Right)
	require.Equal(t, NodeOp, right.Kind)
	assert.Equal(t, OpMult, right.Op.Type)
}

func TestParseParensOverridePrecedence(t *testing.T) {
	// (1 + 2) * 3 should keep the add grouped despite binding looser.
	ast := parseSrc(t, "x = (1 + 2) * 3\n")

	eq := ast.node(ast.Parents[0])
	rhs := ast.node(eq.Op.Right)
	require.Equal(t, OpMult, rhs.Op.Type)

	left := ast.node(rhs.Op.Left)
	require.Equal(t, NodeOp, left.Kind)
	assert.Equal(t, OpAdd, left.Op.Type)
	assert.True(t, left.Op.InParens)
}

func TestParseUnaryMinusDesugarsToSubtractionFromZero(t *testing.T) {
	ast := parseSrc(t, "x = -y\n")

	eq := ast.node(ast.Parents[0])
	rhs := ast.node(eq.Op.Right)
	require.Equal(t, NodeOp, rhs.Kind)
	assert.Equal(t, OpSub, rhs.Op.Type)

	zero := ast.node(rhs.Op.Left)
	assert.Equal(t, NodeNumber, zero.Kind)
	assert.Equal(t, int32(0), zero.Number.IntVal)

	operand := ast.node(rhs.Op.Right)
	assert.Equal(t, "y", operand.ID.Name)
}

func TestParseUnaryMinusOnLiteralNegatesDirectly(t *testing.T) {
	// unlike a variable/call, a literal can be negated at parse time
	// without wrapping it in a subtraction node.
	ast := parseSrc(t, "x = -5\n")

	eq := ast.node(ast.Parents[0])
	rhs := ast.node(eq.Op.Right)
	require.Equal(t, NodeNumber, rhs.Kind)
	assert.Equal(t, int32(-5), rhs.Number.IntVal)
}

func TestParseFunctionCallCollectsArgs(t *testing.T) {
	ast := parseSrc(t, "x = add(1, 2, y)\n")

	eq := ast.node(ast.Parents[0])
	call := ast.node(eq.Op.Right)
	require.Equal(t, NodeID, call.Kind)
	assert.Equal(t, IDFunc, call.ID.Type)
	assert.Equal(t, "add", call.ID.Name)
	require.Len(t, call.ID.Params, 3)
}

func TestParseFuncDecl(t *testing.T) {
	ast := parseSrc(t, "func add(a, b) {\nret a + b\n}\n")

	require.Len(t, ast.Parents, 1)
	fn := ast.node(ast.Parents[0])
	require.Equal(t, NodeKeyword, fn.Kind)
	assert.Equal(t, KeywordFunc, fn.Keyword.Type)
	assert.Equal(t, "add", fn.Keyword.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Keyword.ParamNames)
	require.Len(t, fn.Keyword.Code, 1)

	ret := ast.node(fn.Keyword.Code[0])
	assert.Equal(t, KeywordReturn, ret.Keyword.Type)
	assert.NotEqual(t, NoHandle, ret.Keyword.ReturnVal)
}

func TestParseIfElse(t *testing.T) {
	ast := parseSrc(t, "if x > 0 {\ny = 1\n} else {\ny = 2\n}\n")

	ifNode := ast.node(ast.Parents[0])
	require.Equal(t, KeywordIf, ifNode.Keyword.Type)
	assert.True(t, ifNode.Keyword.HasElse)
	require.Len(t, ifNode.Keyword.Code, 1)
	require.Len(t, ifNode.Keyword.ElseCode, 1)
}

func TestParseForLoop(t *testing.T) {
	ast := parseSrc(t, "for i in range(0, 9) {\nprint(i)\n}\n")

	forNode := ast.node(ast.Parents[0])
	require.Equal(t, KeywordFor, forNode.Keyword.Type)

	cond := ast.node(forNode.Keyword.Condition)
	require.Equal(t, NodeOp, cond.Kind)
	assert.Equal(t, OpIn, cond.Op.Type)
}

func TestParseAndOrParsesWithoutError(t *testing.T) {
	// the table this map is ported from omitted "and"/"or", which would
	// make this an INVALID_TOKEN parse error there. and/or sit in the
	// loosest precedence bucket (below assignment), so the statement
	// groups as ((x = a) and b) or c and the or is the top node.
	ast := parseSrc(t, "x = a and b or c\n")

	top := ast.node(ast.Parents[0])
	assert.Equal(t, OpOr, top.Op.Type)
}

func TestParseIndexedVariable(t *testing.T) {
	ast := parseSrc(t, "x = v[0]\n")

	eq := ast.node(ast.Parents[0])
	rhs := ast.node(eq.Op.Right)
	require.Equal(t, NodeID, rhs.Kind)
	assert.Equal(t, "v", rhs.ID.Name)
	require.Len(t, rhs.ID.Params, 1)
}

func TestParseBreakOutsideLoopIsStillSyntacticallyValid(t *testing.T) {
	// break/continue validity against in_loop is a runtime check, not a
	// parse-time one.
	ast := parseSrc(t, "break\n")
	require.Len(t, ast.Parents, 1)
	assert.Equal(t, KeywordBreak, ast.node(ast.Parents[0]).Keyword.Type)
}

func TestParseMismatchedParenIsParseError(t *testing.T) {
	_, err := Parse(LexBytes([]byte("x = (1 + 2\n")))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ExpectedClosingParen, perr.Kind)
}

func TestParseKeywordAsNameIsInvalidToken(t *testing.T) {
	_, err := Parse(LexBytes([]byte("func if() {\nret 1\n}\n")))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, InvalidToken, perr.Kind)
	assert.Contains(t, err.Error(), "if")
}
