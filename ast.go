package propscript

import "math"

// NodeHandle addresses a Node inside an Ast's node pool. The pool is
// append-only, so handles are stable for the lifetime of the Ast that
// issued them.
type NodeHandle uint32

// NoHandle is the sentinel stored in fields that are optional handles
// (e.g. a void return's ReturnVal), mirroring the source's use of
// UINT32_MAX as an absent-handle marker.
const NoHandle NodeHandle = math.MaxUint32

// NodeKind tags which variant of Node is populated.
type NodeKind uint32

const (
	NodeOp NodeKind = iota
	NodeKeyword
	NodeID
	NodeNumber
)

// OpType is a binary operator tag. The encoding is significant: dividing
// by 10 yields the operator's precedence bucket (see Precedence), and tags
// within the same bucket tie and associate left-to-right.
type OpType uint32

const (
	OpIn OpType = 0

	OpMult OpType = 10
	OpDiv  OpType = 11
	OpMod  OpType = 12

	OpAdd OpType = 20
	OpSub OpType = 21

	OpEqual     OpType = 30
	OpMultEqual OpType = 31
	OpDivEqual  OpType = 32
	OpModEqual  OpType = 33
	OpAddEqual  OpType = 34
	OpSubEqual  OpType = 35

	OpLessThan         OpType = 40
	OpGreaterThan      OpType = 41
	OpLessThanEqual    OpType = 42
	OpGreaterThanEqual OpType = 43
	OpEquality         OpType = 44
	OpNonEquality      OpType = 45

	OpAnd OpType = 50
	OpOr  OpType = 51
)

// Precedence returns an operator's precedence bucket; lower binds tighter.
func Precedence(op OpType) uint32 {
	return uint32(op) / 10
}

// KeywordType tags the control-flow/declaration form a Keyword node holds.
type KeywordType uint32

const (
	KeywordIf KeywordType = iota
	KeywordFor
	KeywordFunc
	KeywordReturn
	KeywordBreak
	KeywordContinue
)

// IDType distinguishes a function call from a variable reference/index.
type IDType uint32

const (
	IDFunc IDType = iota
	IDVar
)

// LiteralType tags a Number node's payload.
type LiteralType uint32

const (
	LiteralInt LiteralType = iota
	LiteralFloat
)

// OpNode is a binary operator: two child handles plus whether the
// expression was written inside parentheses, which freezes its grouping
// against the precedence-climbing parser's right-spine rewrites.
type OpNode struct {
	Type     OpType
	Left     NodeHandle
	Right    NodeHandle
	InParens bool
}

// KeywordNode covers if/for/func/ret/break/continue. Not every field is
// meaningful for every Type: Condition belongs to if/for, the else fields
// to if, Name/ParamNames to func, ReturnVal to ret.
type KeywordNode struct {
	Type KeywordType

	Code      []NodeHandle
	Condition NodeHandle

	HasElse  bool
	ElseCode []NodeHandle

	Name       string
	ParamNames []string

	ReturnVal NodeHandle
}

// IDNode is a name reference. For IDFunc, Params are the call arguments.
// For IDVar, Params is empty (plain read) or has exactly one element (a
// component index).
type IDNode struct {
	Type   IDType
	Name   string
	Params []NodeHandle
}

// NumberNode is an integer or float literal.
type NumberNode struct {
	Type     LiteralType
	IntVal   int32
	FloatVal float32
}

// Node is a tagged-union AST node; exactly one of Op/Keyword/ID/Number is
// meaningful, selected by Kind. Every node records the source line it was
// parsed from for error reporting.
type Node struct {
	Kind NodeKind
	Line uint32

	Op      OpNode
	Keyword KeywordNode
	ID      IDNode
	Number  NumberNode
}

// Ast is an append-only pool of nodes plus the ordered list of top-level
// statement handles. Handles issued against a pool remain valid for the
// Ast's entire lifetime.
type Ast struct {
	Parents []NodeHandle
	Pool    []Node
}

func newAst() *Ast {
	return &Ast{}
}

func (a *Ast) addNode(n Node) NodeHandle {
	a.Pool = append(a.Pool, n)
	return NodeHandle(len(a.Pool) - 1)
}

// node looks up a handle. Handles are only ever produced by this package's
// own parser/deserializer, so an out-of-range handle indicates a corrupt
// Ast rather than a condition callers should handle gracefully.
func (a *Ast) node(h NodeHandle) Node {
	return a.Pool[h]
}
