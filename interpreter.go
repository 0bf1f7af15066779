package propscript

import (
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
)

// NativeFunc is a host- or library-provided function callable from
// PropScript. It receives its already-evaluated arguments, the call-site
// Node (for error reporting via InvalidParamsError), and the opaque user
// data set by WithUserData/SetFunctionUserData.
type NativeFunc func(params []Value, node Node, userData any) (Value, error)

// FunctionSignature names a NativeFunc for registration.
type FunctionSignature struct {
	Name string
	Func NativeFunc
}

// Constant names a fixed Value for registration.
type Constant struct {
	Name  string
	Value Value
}

// scope tracks the names an executeStatements call has newly introduced
// into the Interpreter's function/variable maps, so they can be rolled
// back when the block exits — a local's lifetime is exactly one block.
type scope struct {
	addedFuncs []string
	addedVars  []string
}

// Interpreter holds all the mutable state a running PropScript program
// needs: the native and user-defined function tables, the variable table,
// and the control-flow flags that unwind non-locally out of nested
// statement lists on return/break/continue. Every field that the source
// kept as a process-global lives here instead, so multiple Interpreters
// can run independently.
type Interpreter struct {
	libFunctions map[string]NativeFunc
	constants    map[string]Value
	userData     any

	functions map[string]Node
	variables map[string]Value

	inLoop                             bool
	returnFlag, breakFlag, continueFlag bool
	returnVal                          Value

	logger *logrus.Logger
	out    io.Writer

	pendingFuncs  []FunctionSignature
	pendingConsts []Constant
}

// InterpreterOption configures a new Interpreter.
type InterpreterOption func(*Interpreter)

// WithLogger overrides the default logrus.Logger used to report runtime
// errors caught at Execute's boundary.
func WithLogger(l *logrus.Logger) InterpreterOption {
	return func(i *Interpreter) { i.logger = l }
}

// WithOutput overrides where the print builtin writes to. Defaults to
// os.Stdout.
func WithOutput(w io.Writer) InterpreterOption {
	return func(i *Interpreter) { i.out = w }
}

// WithLibFunctions registers host-provided native functions alongside the
// defaults. A name shared with a default overrides it.
func WithLibFunctions(fns []FunctionSignature) InterpreterOption {
	return func(i *Interpreter) { i.pendingFuncs = fns }
}

// WithConstants registers host-provided constants alongside the defaults.
// A name shared with a default overrides it.
func WithConstants(consts []Constant) InterpreterOption {
	return func(i *Interpreter) { i.pendingConsts = consts }
}

// WithUserData sets the opaque value passed through to every NativeFunc
// call.
func WithUserData(data any) InterpreterOption {
	return func(i *Interpreter) { i.userData = data }
}

// NewInterpreter builds a ready-to-run Interpreter. The default native
// function and constant libraries are always registered; options layer
// host-provided ones on top.
func NewInterpreter(opts ...InterpreterOption) *Interpreter {
	i := &Interpreter{
		logger:    logrus.New(),
		out:       os.Stdout,
		functions: make(map[string]Node),
		variables: make(map[string]Value),
	}

	for _, opt := range opts {
		opt(i)
	}

	i.SetFunctions(i.pendingFuncs)
	i.SetConstants(i.pendingConsts)

	return i
}

// SetFunctions replaces the library function table with the defaults plus
// fns, fns taking precedence on name collision.
func (i *Interpreter) SetFunctions(fns []FunctionSignature) {
	i.libFunctions = make(map[string]NativeFunc)

	for _, f := range defaultFunctions(i.out) {
		i.libFunctions[f.Name] = f.Func
	}
	for _, f := range fns {
		i.libFunctions[f.Name] = f.Func
	}
}

// SetConstants replaces the constant table with the defaults plus consts,
// consts taking precedence on name collision.
func (i *Interpreter) SetConstants(consts []Constant) {
	i.constants = make(map[string]Value)

	for _, c := range defaultConstants() {
		i.constants[c.Name] = c.Value
	}
	for _, c := range consts {
		i.constants[c.Name] = c.Value
	}
}

// SetFunctionUserData changes the opaque value passed to every NativeFunc
// call.
func (i *Interpreter) SetFunctionUserData(data any) {
	i.userData = data
}

// Execute runs every top-level statement of ast. A runtime error aborts
// execution immediately; the Interpreter's function and variable tables
// are cleared before Execute returns one, since their contents may be
// inconsistent partway through a failed statement.
func (i *Interpreter) Execute(ast *Ast) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		rp, ok := r.(runtimePanic)
		if !ok {
			panic(r)
		}

		err = rp.err
		i.logger.WithError(err).Error("propscript: runtime error")

		i.functions = make(map[string]Node)
		i.variables = make(map[string]Value)
	}()

	i.executeStatements(ast, ast.Parents)
	i.returnFlag = false

	return nil
}

//--------------------------------------------------------------------------------------------------------------------------------//

func (i *Interpreter) executeStatements(ast *Ast, nodes []NodeHandle) {
	sc := &scope{}

	for _, h := range nodes {
		i.evaluateStatement(ast, ast.node(h), sc)

		if i.returnFlag || i.breakFlag || i.continueFlag {
			break
		}
	}

	for _, name := range sc.addedFuncs {
		delete(i.functions, name)
	}
	for _, name := range sc.addedVars {
		delete(i.variables, name)
	}
}

func (i *Interpreter) evaluateStatement(ast *Ast, node Node, sc *scope) Value {
	switch node.Kind {
	case NodeOp:
		return i.evaluateOp(ast, node, sc)
	case NodeID:
		return i.evaluateID(ast, node, sc)
	case NodeNumber:
		if node.Number.Type == LiteralInt {
			return intValue(node.Number.IntVal)
		}
		return floatValue(node.Number.FloatVal)
	case NodeKeyword:
		return i.evaluateKeyword(ast, node, sc)
	default:
		throwRuntimeError(UnsupportedNodeType, node.Line)
		return Value{}
	}
}

func (i *Interpreter) evaluateOp(ast *Ast, node Node, sc *scope) Value {
	if node.Op.Type == OpEqual {
		right := i.evaluateStatement(ast, ast.node(node.Op.Right), sc)
		return i.assign(ast, ast.node(node.Op.Left), right, sc)
	}

	left := i.evaluateStatement(ast, ast.node(node.Op.Left), sc)
	right := i.evaluateStatement(ast, ast.node(node.Op.Right), sc)

	switch node.Op.Type {
	case OpMult:
		return mulValues(left, right, node.Line)
	case OpDiv:
		return divValues(left, right, node.Line)
	case OpMod:
		return modValues(left, right, node.Line)
	case OpAdd:
		return addValues(left, right, node.Line)
	case OpSub:
		return subValues(left, right, node.Line)
	case OpMultEqual:
		return i.assign(ast, ast.node(node.Op.Left), mulValues(left, right, node.Line), sc)
	case OpDivEqual:
		return i.assign(ast, ast.node(node.Op.Left), divValues(left, right, node.Line), sc)
	case OpModEqual:
		return i.assign(ast, ast.node(node.Op.Left), modValues(left, right, node.Line), sc)
	case OpAddEqual:
		return i.assign(ast, ast.node(node.Op.Left), addValues(left, right, node.Line), sc)
	case OpSubEqual:
		return i.assign(ast, ast.node(node.Op.Left), subValues(left, right, node.Line), sc)
	case OpLessThan:
		return lessThanValues(left, right, node.Line)
	case OpGreaterThan:
		return greaterThanValues(left, right, node.Line)
	case OpLessThanEqual:
		return lessThanEqualValues(left, right, node.Line)
	case OpGreaterThanEqual:
		return greaterThanEqualValues(left, right, node.Line)
	case OpEquality:
		return equalityValues(left, right, node.Line)
	case OpNonEquality:
		eq := equalityValues(left, right, node.Line)
		return boolValue(eq.Int == 0)
	case OpAnd:
		return logicalAnd(left, right, node.Line)
	case OpOr:
		return logicalOr(left, right, node.Line)
	default:
		throwRuntimeError(UnsupportedNodeType, node.Line)
		return Value{}
	}
}

func (i *Interpreter) evaluateID(ast *Ast, node Node, sc *scope) Value {
	if node.ID.Type == IDFunc {
		params := make([]Value, len(node.ID.Params))
		for idx, ph := range node.ID.Params {
			params[idx] = i.evaluateStatement(ast, ast.node(ph), sc)
		}

		if fn, ok := i.libFunctions[node.ID.Name]; ok {
			v, err := fn(params, node, i.userData)
			if err != nil {
				throwRuntime(err)
			}
			return v
		}

		if _, ok := i.functions[node.ID.Name]; ok {
			return i.executeFunction(ast, node, params)
		}

		throwRuntimeError(UndefinedFunction, node.Line)
		return Value{}
	}

	if v, ok := i.constants[node.ID.Name]; ok {
		return v
	}

	v, ok := i.variables[node.ID.Name]
	if !ok {
		throwRuntimeError(UndefinedVariable, node.Line)
	}

	if len(node.ID.Params) == 0 {
		return v
	}

	if v.isScalar() {
		throwRuntimeError(InvalidIndex, node.Line)
	}

	index := i.evaluateStatement(ast, ast.node(node.ID.Params[0]), sc)
	if index.Kind != ValueInt {
		throwRuntimeError(InvalidIndex, node.Line)
	}
	idx := index.Int

	switch {
	case v.Kind == ValueVec2 && idx >= 0 && idx <= 1:
		return floatValue(v.Vec2[idx])
	case v.Kind == ValueVec3 && idx >= 0 && idx <= 2:
		return floatValue(v.Vec3[idx])
	case v.Kind == ValueVec4 && idx >= 0 && idx <= 3:
		return floatValue(v.Vec4[idx])
	default:
		throwRuntimeError(InvalidIndex, node.Line)
		return Value{}
	}
}

func (i *Interpreter) evaluateKeyword(ast *Ast, node Node, sc *scope) Value {
	switch node.Keyword.Type {
	case KeywordIf:
		cond := i.evaluateStatement(ast, ast.node(node.Keyword.Condition), sc)
		if asScalar(cond, node.Line, InvalidCondition) != 0 {
			i.executeStatements(ast, node.Keyword.Code)
		} else if node.Keyword.HasElse {
			i.executeStatements(ast, node.Keyword.ElseCode)
		}
		return Value{}

	case KeywordFor:
		i.evaluateFor(ast, node)
		return Value{}

	case KeywordFunc:
		if _, exists := i.functions[node.Keyword.Name]; exists {
			throwRuntimeError(FunctionRedefinition, node.Line)
		}
		i.functions[node.Keyword.Name] = node
		sc.addedFuncs = append(sc.addedFuncs, node.Keyword.Name)
		return Value{}

	case KeywordReturn:
		i.returnFlag = true
		if node.Keyword.ReturnVal != NoHandle {
			i.returnVal = i.evaluateStatement(ast, ast.node(node.Keyword.ReturnVal), sc)
		} else {
			i.returnVal = Value{}
		}
		return Value{}

	case KeywordBreak:
		if !i.inLoop {
			throwRuntimeError(InvalidBreakContinue, node.Line)
		}
		i.breakFlag = true
		return Value{}

	case KeywordContinue:
		if !i.inLoop {
			throwRuntimeError(InvalidBreakContinue, node.Line)
		}
		i.continueFlag = true
		return Value{}

	default:
		throwRuntimeError(UnsupportedNodeType, node.Line)
		return Value{}
	}
}

// evaluateFor ports the source's for-loop, fixing one bug along the way:
// the source only checks the break/continue flags between iterations, not
// the return flag, so a return executed inside a nested for loop left the
// loop re-entering its body (re-running just the body's first statement,
// since executeStatements itself still honors the return flag) once per
// remaining iteration instead of unwinding immediately. This version also
// stops on a set return flag.
func (i *Interpreter) evaluateFor(ast *Ast, node Node) {
	condNode := ast.node(node.Keyword.Condition)
	if condNode.Kind != NodeOp || condNode.Op.Type != OpIn {
		throwRuntimeError(InvalidCondition, node.Line)
	}

	varNode := ast.node(condNode.Op.Left)
	if varNode.Kind != NodeID || varNode.ID.Type != IDVar {
		throwRuntimeError(InvalidCondition, node.Line)
	}
	if _, exists := i.variables[varNode.ID.Name]; exists {
		throwRuntimeError(InvalidCondition, node.Line)
	}

	forSc := &scope{}

	rng := i.evaluateStatement(ast, ast.node(condNode.Op.Right), forSc)
	if rng.Kind != ValueVec2 {
		throwRuntimeError(InvalidCondition, node.Line)
	}

	outermost := false
	if !i.inLoop {
		outermost = true
		i.inLoop = true
	}

	min := int32(math.Ceil(float64(rng.Vec2[0])))
	max := int32(math.Floor(float64(rng.Vec2[1])))

	for idx := min; idx <= max; idx++ {
		i.assign(ast, varNode, intValue(idx), forSc)

		i.executeStatements(ast, node.Keyword.Code)

		if i.returnFlag {
			break
		}
		if i.breakFlag {
			i.breakFlag = false
			break
		}
		if i.continueFlag {
			i.continueFlag = false
			continue
		}
	}

	for _, name := range forSc.addedFuncs {
		delete(i.functions, name)
	}
	for _, name := range forSc.addedVars {
		delete(i.variables, name)
	}

	if outermost {
		i.inLoop = false
	}
}

// executeFunction calls a programmer-defined function: binds its
// parameters into a fresh variable table, swaps it in for the duration of
// the call, then restores the caller's table.
//
// params must already hold each argument's evaluated value, evaluated once
// by the caller in the caller's scope. The source evaluates
// arguments once into a params array and then, for a script-defined
// callee, evaluates them a second time straight off the AST when binding
// them into the callee's table — harmless for pure numeric arguments, but
// doubling any side effect (a native call, a compound assignment) an
// argument expression has. evaluateID now evaluates arguments exactly
// once and hands the result to both the native-function and
// script-function paths, so this doesn't get re-evaluated here.
//
// The source, after restoring the caller's table, erases the callee's
// parameter names from it — intended to clean up the callee's now-discarded
// local map, but written after the swap-back so it instead deletes any
// caller variable that happens to share a name with one of the callee's
// parameters. The callee's table is simply a local map here and needs no
// explicit cleanup, so that erase step is dropped rather than ported.
func (i *Interpreter) executeFunction(ast *Ast, node Node, params []Value) Value {
	funcNode := i.functions[node.ID.Name]

	if len(funcNode.Keyword.ParamNames) != len(params) {
		throwRuntimeError(InvalidParams, node.Line)
	}

	funcVars := make(map[string]Value, len(funcNode.Keyword.ParamNames))
	for idx, pname := range funcNode.Keyword.ParamNames {
		if _, exists := funcVars[pname]; exists {
			throwRuntimeError(ArgumentNameRedefinition, funcNode.Line)
		}
		funcVars[pname] = params[idx]
	}

	saved := i.variables
	i.variables = funcVars
	i.executeStatements(ast, funcNode.Keyword.Code)
	i.variables = saved

	if i.returnFlag {
		i.returnFlag = false
		return i.returnVal
	}
	return Value{}
}

// assign ports the source's _ps_equal: a plain write, a widening write
// (int into an existing float variable), or an indexed component write.
func (i *Interpreter) assign(ast *Ast, varNode Node, val Value, sc *scope) Value {
	if varNode.Kind != NodeID || varNode.ID.Type != IDVar {
		throwRuntimeError(InvalidAssignment, varNode.Line)
	}
	if val.Kind == ValueVoid {
		throwRuntimeError(InvalidAssignment, varNode.Line)
	}

	existing, ok := i.variables[varNode.ID.Name]
	if ok {
		if existing.Kind == ValueFloat && val.Kind == ValueInt {
			widened := floatValue(float32(val.Int))
			i.variables[varNode.ID.Name] = widened
			return widened
		}

		if len(varNode.ID.Params) == 1 {
			index := i.evaluateStatement(ast, ast.node(varNode.ID.Params[0]), sc)
			if index.Kind != ValueInt {
				throwRuntimeError(InvalidIndex, varNode.Line)
			}
			idx := index.Int

			floatVal := asScalar(val, varNode.Line, InvalidAssignment)

			switch {
			case existing.Kind == ValueVec2 && idx >= 0 && idx <= 1:
				existing.Vec2[idx] = floatVal
			case existing.Kind == ValueVec3 && idx >= 0 && idx <= 2:
				existing.Vec3[idx] = floatVal
			case existing.Kind == ValueVec4 && idx >= 0 && idx <= 3:
				existing.Vec4[idx] = floatVal
			default:
				throwRuntimeError(InvalidIndex, varNode.Line)
			}

			i.variables[varNode.ID.Name] = existing
			return floatValue(floatVal)
		}

		if existing.Kind != val.Kind {
			throwRuntimeError(InvalidAssignment, varNode.Line)
		}
	} else if len(varNode.ID.Params) != 0 {
		throwRuntimeError(InvalidIndex, varNode.Line)
	} else {
		sc.addedVars = append(sc.addedVars, varNode.ID.Name)
	}

	i.variables[varNode.ID.Name] = val
	return val
}
