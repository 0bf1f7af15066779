package propscript

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Lex reads the file at path and tokenizes it. A failure to open the file
// is logged and reported as a *LexError; the lexer never partially fails
// once reading has started (malformed source is a parser-time concern,
// not a lexer-time one).
func Lex(path string) ([]Token, error) {
	f, err := os.Open(path)
	if err != nil {
		logrus.WithField("path", path).WithError(err).Error("propscript: failed to open source file")
		return nil, &LexError{Path: path, Err: err}
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		logrus.WithField("path", path).WithError(err).Error("propscript: failed to read source file")
		return nil, &LexError{Path: path, Err: err}
	}

	return LexBytes(src), nil
}

// LexBytes tokenizes in-memory source text. Unlike Lex it cannot fail:
// any byte sequence produces some token stream, with ambiguities resolved
// by the parser.
func LexBytes(src []byte) []Token {
	var tokens []Token

	inComment := false
	curLine := uint32(1)

	var idBuf []byte

	tryAddID := func() {
		if len(idBuf) == 0 {
			return
		}
		s := string(idBuf)
		idBuf = idBuf[:0]

		kind := TokenID
		if s == keywordAnd || s == keywordOr || s == keywordIn {
			kind = TokenOp
		}
		tokens = append(tokens, Token{Kind: kind, Str: s, Line: curLine})
	}

	i := 0
	n := len(src)
	for i < n {
		ch := src[i]
		i++

		switch {
		case ch == '\n':
			tryAddID()

			if len(tokens) > 1 && tokens[len(tokens)-1].Kind != TokenNewline {
				tokens = append(tokens, Token{Kind: TokenNewline, Line: curLine})
			}

			inComment = false
			curLine++

		case inComment:
			continue

		case isSpace(ch):
			tryAddID()

		case isOperatorChar(ch, 0):
			tryAddID()

			opBytes := make([]byte, 1, maxOperatorLen)
			opBytes[0] = ch
			opLen := 1

			for i < n && isOperatorChar(src[i], opLen) {
				opBytes = append(opBytes, src[i])
				i++
				opLen++
			}

			for opLen > 0 && !isOperatorString(string(opBytes[:opLen])) {
				opLen--
				i--
			}

			opStr := string(opBytes[:opLen])

			if opStr == commentStart {
				inComment = true
			} else if opLen > 0 {
				tokens = append(tokens, Token{Kind: TokenOp, Str: opStr, Line: curLine})
			}

		default:
			idBuf = append(idBuf, ch)
		}
	}

	tryAddID()

	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenNewline {
		tokens = append(tokens, Token{Kind: TokenNewline, Line: curLine})
	}

	return tokens
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// isOperatorChar reports whether ch can appear at position idx of some
// entry in the operator table; the lexer's greedy scan keeps consuming
// characters while this holds, then backtracks to the longest exact
// match.
func isOperatorChar(ch byte, idx int) bool {
	for _, op := range lexerOperators {
		if idx < len(op) && op[idx] == ch {
			return true
		}
	}
	return false
}
