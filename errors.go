package propscript

import "fmt"

// ParseErrorKind enumerates the ways a token stream can fail to parse.
type ParseErrorKind uint8

const (
	ExpectedClosingParen ParseErrorKind = iota
	UnexpectedOperator
	ExpectedOperator
	InvalidToken
	ExpectedOpeningCurly
)

func (k ParseErrorKind) String() string {
	switch k {
	case ExpectedClosingParen:
		return "expected closing parenthesis"
	case UnexpectedOperator:
		return "unexpected operator"
	case ExpectedOperator:
		return "expected operator"
	case InvalidToken:
		return "invalid token"
	case ExpectedOpeningCurly:
		return "expected opening curly brace"
	default:
		return "unknown parse error"
	}
}

// ParseError reports a failure to build an Ast from a token stream. It
// always carries the offending token, so callers get the line number and,
// for UnexpectedOperator/InvalidToken, the literal text that tripped it.
type ParseError struct {
	Kind  ParseErrorKind
	Token Token
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedOperator:
		return fmt.Sprintf("parse error: unexpected operator %q on line %d", e.Token.Str, e.Token.Line)
	case InvalidToken:
		return fmt.Sprintf("parse error: invalid token %q on line %d", e.Token.Str, e.Token.Line)
	default:
		return fmt.Sprintf("parse error: %s on line %d", e.Kind, e.Token.Line)
	}
}

// RuntimeErrorKind enumerates the ways execution of a valid Ast can fail.
type RuntimeErrorKind uint8

const (
	InvalidAssignment RuntimeErrorKind = iota
	InvalidOp
	UnsupportedNodeType
	UndefinedVariable
	UndefinedFunction
	InvalidParams
	InvalidIndex
	InvalidCondition
	InvalidBreakContinue
	FunctionRedefinition
	ArgumentNameRedefinition
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case InvalidAssignment:
		return "invalid assignment"
	case InvalidOp:
		return "invalid operation"
	case UnsupportedNodeType:
		return "unsupported node type"
	case UndefinedVariable:
		return "undefined variable"
	case UndefinedFunction:
		return "undefined function"
	case InvalidParams:
		return "invalid parameters"
	case InvalidIndex:
		return "invalid index"
	case InvalidCondition:
		return "invalid condition"
	case InvalidBreakContinue:
		return "invalid break/continue"
	case FunctionRedefinition:
		return "function redefinition"
	case ArgumentNameRedefinition:
		return "argument name redefinition"
	default:
		return "unknown runtime error"
	}
}

// RuntimeError reports a failure during Ast execution, with the line of
// the AST node that raised it. Execution is fatal on error: the
// Interpreter's function/variable maps are cleared before Execute returns.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Line uint32
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s on line %d", e.Kind, e.Line)
}

// InvalidParamsError builds the error a native function should return when
// it rejects its argument list, mirroring the host API's
// throw_invalid_param_error entry point.
func InvalidParamsError(node Node) error {
	return &RuntimeError{Kind: InvalidParams, Line: node.Line}
}

// LexError reports a failure to open or read a source file.
type LexError struct {
	Path string
	Err  error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error: failed to open %q for reading: %v", e.Path, e.Err)
}

func (e *LexError) Unwrap() error { return e.Err }

// parsePanic/runtimePanic let deeply recursive parse/evaluate functions
// abort to the nearest Parse/Execute boundary without threading an error
// return through every call, mirroring the source's throw/catch pair
// around a single top-level handler.
type parsePanic struct{ err *ParseError }

type runtimePanic struct{ err error }

func throwParseError(kind ParseErrorKind, tok Token) {
	panic(parsePanic{&ParseError{Kind: kind, Token: tok}})
}

func throwRuntimeError(kind RuntimeErrorKind, line uint32) {
	panic(runtimePanic{&RuntimeError{Kind: kind, Line: line}})
}

func throwRuntime(err error) {
	panic(runtimePanic{err})
}
