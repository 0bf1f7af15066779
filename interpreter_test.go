package propscript

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSrc(t *testing.T, src string, opts ...InterpreterOption) (*Interpreter, string, error) {
	t.Helper()

	ast, err := Parse(LexBytes([]byte(src)))
	require.NoError(t, err)

	var out bytes.Buffer
	opts = append(opts, WithOutput(&out))
	interp := NewInterpreter(opts...)

	err = interp.Execute(ast)
	return interp, out.String(), err
}

func TestExecuteAssignmentAndPrint(t *testing.T) {
	_, out, err := runSrc(t, "x = 1 + 2\nprint(x)\n")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestExecuteFloatWideningFromInt(t *testing.T) {
	// Execute removes top-level variables on exit, so the widened value is
	// observed through print: x / 4 is 0.5 only if x holds a float (an int
	// x would divide to 0).
	_, out, err := runSrc(t, "x = 1.5\nx = 2\nprint(x)\nprint(x / 4)\n")
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 2)
	assert.Equal(t, "2", lines[0])
	assert.Equal(t, "0.5", lines[1])
}

func TestExecuteAssignmentTypeMismatchErrors(t *testing.T) {
	_, _, err := runSrc(t, "x = 1\nx = vec2(1, 2)\n")
	require.Error(t, err)

	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, InvalidAssignment, rerr.Kind)
}

func TestExecuteVectorIndexReadWrite(t *testing.T) {
	_, out, err := runSrc(t, "v = vec2(1, 2)\nv[0] = 9\nprint(v[0], v[1])\n")
	require.NoError(t, err)
	assert.Equal(t, "9, 2\n", out)

	// the stored vector itself carries the written component
	_, vecOut, err := runSrc(t, "v = vec2(1, 2)\nv[0] = 9\nprint(v)\n")
	require.NoError(t, err)
	assert.Equal(t, "(9, 2)\n", vecOut)
}

func TestExecuteForLoopIteratesInclusiveRange(t *testing.T) {
	_, out, err := runSrc(t, "for i in range(0, 3) {\nprint(i)\n}\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3"}, strings.Fields(out))
}

func TestExecuteBreakStopsLoop(t *testing.T) {
	_, out, err := runSrc(t, "for i in range(0, 9) {\nif i == 3 {\nbreak\n}\nprint(i)\n}\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, strings.Fields(out))
}

func TestExecuteContinueSkipsIteration(t *testing.T) {
	_, out, err := runSrc(t, "for i in range(0, 4) {\nif i == 2 {\ncontinue\n}\nprint(i)\n}\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "3", "4"}, strings.Fields(out))
}

func TestExecuteBreakOutsideLoopErrors(t *testing.T) {
	_, _, err := runSrc(t, "break\n")
	require.Error(t, err)

	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, InvalidBreakContinue, rerr.Kind)
}

func TestExecuteFunctionCallAndReturn(t *testing.T) {
	_, out, err := runSrc(t, "func add(a, b) {\nret a + b\n}\nprint(add(2, 3))\n")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestExecuteReturnInsideForLoopStopsImmediately(t *testing.T) {
	// the source only checked break/continue between iterations, so a
	// return from inside a for loop would keep silently re-entering the
	// loop body (re-running its first statement each time) instead of
	// unwinding right away.
	_, out, err := runSrc(t, "func first(n) {\nfor i in range(0, n) {\nprint(i)\nret i\n}\nret -1\n}\nprint(first(9))\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "0"}, strings.Fields(out))
}

func TestExecuteFunctionParamDoesNotLeakIntoCallerScope(t *testing.T) {
	// the source's post-call cleanup erased the callee's parameter names
	// from the (already-restored) caller scope, deleting any caller
	// variable sharing a name with one of the callee's parameters.
	_, out, err := runSrc(t, "x = 42\nfunc f(x) {\nret x + 1\n}\nprint(f(1))\nprint(x)\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "42"}, strings.Fields(out))
}

func TestExecuteUndefinedVariableErrors(t *testing.T) {
	_, _, err := runSrc(t, "print(nope)\n")
	require.Error(t, err)

	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, UndefinedVariable, rerr.Kind)
}

func TestExecuteFunctionRedefinitionErrors(t *testing.T) {
	_, _, err := runSrc(t, "func f() {\nret 1\n}\nfunc f() {\nret 2\n}\n")
	require.Error(t, err)

	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, FunctionRedefinition, rerr.Kind)
}

func TestExecuteCustomNativeFunctionOverridesDefault(t *testing.T) {
	called := false
	custom := FunctionSignature{
		Name: "sqrt",
		Func: func(params []Value, node Node, userData any) (Value, error) {
			called = true
			return intValue(-1), nil
		},
	}

	_, out, err := runSrc(t, "print(sqrt(9))\n", WithLibFunctions([]FunctionSignature{custom}))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "-1\n", out)
}

func TestExecuteUserFunctionArgumentEvaluatedOnce(t *testing.T) {
	// a user-defined function's arguments must be evaluated exactly once
	// in the caller's scope before the call, even though they're bound
	// into the callee's fresh variable table by a separate step.
	calls := 0
	counter := FunctionSignature{
		Name: "bump",
		Func: func(params []Value, node Node, userData any) (Value, error) {
			calls++
			return intValue(1), nil
		},
	}

	_, out, err := runSrc(t, "func identity(x) {\nret x\n}\nprint(identity(bump()))\n", WithLibFunctions([]FunctionSignature{counter}))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "1\n", out)
}

func TestExecuteLogicalAndOrAreNotShortCircuiting(t *testing.T) {
	calls := 0
	sideEffect := FunctionSignature{
		Name: "bump",
		Func: func(params []Value, node Node, userData any) (Value, error) {
			calls++
			return intValue(1), nil
		},
	}

	_, _, err := runSrc(t, "x = 0 and bump()\n", WithLibFunctions([]FunctionSignature{sideEffect}))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteDefaultConstants(t *testing.T) {
	_, out, err := runSrc(t, "print(M_PI)\n")
	require.NoError(t, err)
	assert.Contains(t, out, "3.14159")
}
