package propscript

import "strconv"

// parser holds the cursor state threaded through the recursive-descent +
// precedence-climbing parse of a token stream.
type parser struct {
	ast           *Ast
	tokens        []Token
	curTokenIdx   int
	numOpenParens int
}

// Parse builds an Ast from a token stream produced by Lex/LexBytes. A
// syntax error aborts parsing and yields a nil Ast and a *ParseError.
func Parse(tokens []Token) (ast *Ast, err error) {
	p := &parser{ast: newAst(), tokens: tokens}

	defer func() {
		if r := recover(); r != nil {
			pp, ok := r.(parsePanic)
			if !ok {
				panic(r)
			}
			ast = nil
			err = pp.err
		}
	}()

	for p.curTokenIdx < len(p.tokens) {
		p.ast.Parents = append(p.ast.Parents, p.parseStatement())
		p.removeNewline()
	}

	return p.ast, nil
}

func (p *parser) cur() Token {
	return p.tokens[p.curTokenIdx]
}

func (p *parser) addNode(n Node) NodeHandle {
	return p.ast.addNode(n)
}

// continueStatement consumes a newline if we're inside open parens/
// brackets, allowing multiline expressions; it errors if that newline was
// the last token (an unterminated parenthesized expression).
func (p *parser) continueStatement() {
	if p.cur().Kind == TokenNewline && p.numOpenParens != 0 {
		p.curTokenIdx++
		if p.curTokenIdx >= len(p.tokens) {
			throwParseError(ExpectedClosingParen, p.tokens[p.curTokenIdx-1])
		}
	}
}

func (p *parser) removeNewline() {
	if p.cur().Kind == TokenNewline {
		p.curTokenIdx++
	}
}

func (p *parser) forceID(tok Token) {
	if tok.Kind != TokenID {
		throwParseError(UnexpectedOperator, tok)
	}
	for _, kw := range keywords {
		if tok.Str == kw {
			throwParseError(InvalidToken, tok)
		}
	}
}

func isClosedSeparator(s string) bool {
	for _, sep := range closedSeparators {
		if sep == s {
			return true
		}
	}
	return false
}

// atStatementEnd reports whether the current token terminates an
// expression: a newline, an opening curly (start of a block), or any
// closing separator.
func (p *parser) atStatementEnd() bool {
	t := p.cur()
	return t.Kind == TokenNewline || t.Str == sepCurlyOpen || isClosedSeparator(t.Str)
}

func (p *parser) atEOFOrStatementEnd() bool {
	if p.curTokenIdx >= len(p.tokens) {
		return true
	}
	return p.atStatementEnd()
}

//--------------------------------------------------------------------------------------------------------------------------------//
// statement dispatch

func (p *parser) parseStatement() NodeHandle {
	tok := p.cur()

	if tok.Str == keywordIf || tok.Str == keywordFor {
		return p.parseControlFlow()
	}
	if tok.Str == keywordFunc {
		return p.parseFuncDecl()
	}
	if tok.Str == keywordReturn {
		return p.parseReturn()
	}
	if tok.Str == keywordBreak || tok.Str == keywordContinue {
		return p.parseBreakContinue()
	}

	return p.parseExpressionStatement()
}

func (p *parser) parseControlFlow() NodeHandle {
	isFor := p.cur().Str == keywordFor

	if p.numOpenParens > 0 {
		throwParseError(InvalidToken, p.cur())
	}

	node := Node{Kind: NodeKeyword, Line: p.cur().Line}
	if isFor {
		node.Keyword.Type = KeywordFor
	} else {
		node.Keyword.Type = KeywordIf
	}

	p.curTokenIdx++
	node.Keyword.Condition = p.parseStatement()
	p.removeNewline()

	node.Keyword.Code = p.parseBlockOrSingleStatement()

	if isFor {
		return p.addNode(node)
	}

	p.removeNewline()
	if p.cur().Str == keywordElse {
		node.Keyword.HasElse = true
		p.curTokenIdx++
		p.removeNewline()
		node.Keyword.ElseCode = p.parseBlockOrSingleStatement()
	} else {
		node.Keyword.HasElse = false
	}

	return p.addNode(node)
}

func (p *parser) parseBlockOrSingleStatement() []NodeHandle {
	var code []NodeHandle

	if p.cur().Str == sepCurlyOpen {
		p.curTokenIdx++
		p.removeNewline()

		for p.cur().Str != sepCurlyClose {
			code = append(code, p.parseStatement())
			p.removeNewline()
		}

		p.curTokenIdx++
	} else {
		code = append(code, p.parseStatement())
	}

	return code
}

func (p *parser) parseFuncDecl() NodeHandle {
	node := Node{Kind: NodeKeyword, Line: p.cur().Line}
	node.Keyword.Type = KeywordFunc

	p.curTokenIdx++
	p.removeNewline()

	p.forceID(p.cur())
	node.Keyword.Name = p.cur().Str
	p.curTokenIdx++
	p.removeNewline()

	if p.cur().Str == sepParenOpen {
		p.curTokenIdx++
		p.numOpenParens++
		p.continueStatement()

		// an empty "()" declares a function with no parameters
		hasParams := p.cur().Str != sepParenClose
		for hasParams {
			p.forceID(p.cur())
			node.Keyword.ParamNames = append(node.Keyword.ParamNames, p.cur().Str)
			p.curTokenIdx++

			if p.cur().Str == sepParenClose {
				break
			} else if p.cur().Str != sepComma {
				throwParseError(ExpectedOperator, p.cur())
			}

			p.curTokenIdx++
			p.continueStatement()
		}

		p.curTokenIdx++
		p.numOpenParens--
	}

	p.removeNewline()

	if p.cur().Str != sepCurlyOpen {
		throwParseError(ExpectedOpeningCurly, p.cur())
	}
	p.curTokenIdx++
	p.removeNewline()

	for p.cur().Str != sepCurlyClose {
		node.Keyword.Code = append(node.Keyword.Code, p.parseStatement())
		p.removeNewline()
	}
	p.curTokenIdx++

	return p.addNode(node)
}

func (p *parser) parseReturn() NodeHandle {
	node := Node{Kind: NodeKeyword, Line: p.cur().Line}
	node.Keyword.Type = KeywordReturn

	p.curTokenIdx++
	if !p.atStatementEnd() {
		node.Keyword.ReturnVal = p.parseStatement()
	} else {
		node.Keyword.ReturnVal = NoHandle
	}

	return p.addNode(node)
}

func (p *parser) parseBreakContinue() NodeHandle {
	tok := p.cur()
	node := Node{Kind: NodeKeyword, Line: tok.Line}
	if tok.Str == keywordBreak {
		node.Keyword.Type = KeywordBreak
	} else {
		node.Keyword.Type = KeywordContinue
	}

	p.curTokenIdx++
	if !p.atStatementEnd() {
		throwParseError(InvalidToken, p.cur())
	}

	return p.addNode(node)
}

//--------------------------------------------------------------------------------------------------------------------------------//
// expression parsing (precedence climbing over the right spine)

// parseExpressionStatement mirrors the source's loop exactly: opNode is
// kept as a local (not-yet-pooled) node for as long as possible, and is
// only added to the pool once it is wrapped by a new top-level operator or
// once the whole expression is complete. The right-spine walk used to
// place a lower-precedence-binding operator deep inside the tree is
// expressed with handles and an "atLocal" flag rather than a raw pointer,
// since appending to the node pool can reallocate its backing array.
func (p *parser) parseExpressionStatement() NodeHandle {
	left := p.parseNonOp()

	if p.atStatementEnd() {
		return left
	}

	opNode := p.getOpNode()
	right := p.parseNonOp()

	opNode.Op.InParens = false
	opNode.Op.Left = left
	opNode.Op.Right = right

	for !p.atEOFOrStatementEnd() {
		newOp := p.getOpNode()
		right := p.parseNonOp()

		if Precedence(newOp.Op.Type) >= Precedence(opNode.Op.Type) {
			newOp.Op.Left = p.addNode(opNode)
			newOp.Op.Right = right
			opNode = newOp
			continue
		}

		// find where, along the right spine, the new (tighter-binding)
		// operator belongs
		atLocal := true
		var spineHandle NodeHandle

		for {
			var childHandle NodeHandle
			if atLocal {
				childHandle = opNode.Op.Right
			} else {
				childHandle = p.ast.Pool[spineHandle].Op.Right
			}

			child := p.ast.Pool[childHandle]
			if child.Kind != NodeOp || Precedence(newOp.Op.Type) >= Precedence(child.Op.Type) || child.Op.InParens {
				break
			}

			atLocal = false
			spineHandle = childHandle
		}

		var oldRight NodeHandle
		if atLocal {
			oldRight = opNode.Op.Right
		} else {
			oldRight = p.ast.Pool[spineHandle].Op.Right
		}

		newOp.Op.Left = oldRight
		newOp.Op.Right = right
		newHandle := p.addNode(newOp)

		if atLocal {
			opNode.Op.Right = newHandle
		} else {
			p.ast.Pool[spineHandle].Op.Right = newHandle
		}
	}

	return p.addNode(opNode)
}

func (p *parser) parseNonOp() NodeHandle {
	var node NodeHandle
	if p.cur().Str == sepParenOpen {
		node = p.parseStatementInParens()
	} else {
		node = p.parseID()
	}
	p.continueStatement()
	return node
}

func (p *parser) parseStatementInParens() NodeHandle {
	p.curTokenIdx++
	p.numOpenParens++
	node := p.parseStatement()

	if p.cur().Str != sepParenClose {
		throwParseError(ExpectedClosingParen, p.cur())
	}

	p.ast.Pool[node].Op.InParens = true

	p.numOpenParens--
	p.curTokenIdx++
	return node
}

// parseID parses a function call, indexed/plain variable, or numeric
// literal, with an optional leading unary minus. A literal negates
// directly; a variable or function call can't be negated until it's been
// evaluated, so it's wrapped as `0 - operand` instead — the fix chosen
// for the source's arithmetically-wrong `(-1) - operand` form of the same
// desugaring.
func (p *parser) parseID() NodeHandle {
	negative := false
	if p.cur().Str == opSub {
		negative = true
		p.curTokenIdx++
	}

	p.forceID(p.cur())

	// FUNCTION CALL:
	if p.tokens[p.curTokenIdx+1].Str == sepParenOpen {
		node := Node{Kind: NodeID, Line: p.cur().Line}
		node.ID.Type = IDFunc
		node.ID.Name = p.cur().Str

		p.curTokenIdx += 2
		p.numOpenParens++
		p.continueStatement()

		if p.cur().Str == sepParenClose {
			p.curTokenIdx++
			p.numOpenParens--
			return p.negateIfNeeded(negative, p.addNode(node))
		}

		for {
			node.ID.Params = append(node.ID.Params, p.parseStatement())

			if p.cur().Str == sepParenClose {
				break
			} else if p.cur().Str != sepComma {
				throwParseError(ExpectedOperator, p.cur())
			}

			p.curTokenIdx++
			p.continueStatement()
		}

		p.curTokenIdx++
		p.numOpenParens--

		return p.negateIfNeeded(negative, p.addNode(node))
	}

	tok := p.cur()
	p.curTokenIdx++

	// NUMBER LITERAL:
	if isDigit(tok.Str[0]) || tok.Str[0] == '.' {
		return p.parseNumberLiteral(tok, negative)
	}

	// VARIABLE:
	node := Node{Kind: NodeID, Line: tok.Line}
	node.ID.Type = IDVar
	node.ID.Name = tok.Str

	if p.cur().Str == sepSquareOpen {
		p.numOpenParens++
		p.continueStatement()

		p.curTokenIdx++
		node.ID.Params = append(node.ID.Params, p.parseStatement())

		p.continueStatement()
		if p.cur().Str != sepSquareClose {
			throwParseError(ExpectedClosingParen, p.cur())
		}

		p.numOpenParens--
		p.curTokenIdx++
	}

	return p.negateIfNeeded(negative, p.addNode(node))
}

func (p *parser) parseNumberLiteral(tok Token, negative bool) NodeHandle {
	isFloat := false
	for i := 0; i < len(tok.Str); i++ {
		switch {
		case tok.Str[i] == '.':
			if isFloat {
				throwParseError(InvalidToken, p.cur())
			}
			isFloat = true
		case !isDigit(tok.Str[i]):
			throwParseError(InvalidToken, p.cur())
		}
	}

	node := Node{Kind: NodeNumber, Line: tok.Line}
	if isFloat {
		f, _ := strconv.ParseFloat(tok.Str, 32)
		node.Number.Type = LiteralFloat
		node.Number.FloatVal = float32(f)
		if negative {
			node.Number.FloatVal *= -1
		}
	} else {
		n, _ := strconv.ParseInt(tok.Str, 10, 32)
		node.Number.Type = LiteralInt
		node.Number.IntVal = int32(n)
		if negative {
			node.Number.IntVal *= -1
		}
	}

	return p.addNode(node)
}

// negateIfNeeded wraps operand in `0 - operand` when a leading unary minus
// was consumed for a variable reference or function call.
func (p *parser) negateIfNeeded(negative bool, operand NodeHandle) NodeHandle {
	if !negative {
		return operand
	}

	line := p.ast.Pool[operand].Line

	zero := Node{Kind: NodeNumber, Line: line}
	zero.Number.Type = LiteralInt
	zero.Number.IntVal = 0

	minus := Node{Kind: NodeOp, Line: line}
	minus.Op.Type = OpSub
	minus.Op.Left = p.addNode(zero)
	minus.Op.Right = operand

	return p.addNode(minus)
}

func (p *parser) getOpNode() Node {
	tok := p.cur()
	if tok.Kind != TokenOp {
		throwParseError(ExpectedOperator, tok)
	}

	node := Node{Kind: NodeOp, Line: tok.Line}
	opType, ok := opTypeByString[tok.Str]
	if !ok {
		throwParseError(InvalidToken, tok)
	}
	node.Op.Type = opType

	p.curTokenIdx++
	p.continueStatement()
	return node
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
