package propscript

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// SerializeError wraps a failure to save or load an Ast's binary form.
type SerializeError struct {
	Path string
	Err  error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("propscript: failed to serialize ast at %q: %v", e.Path, e.Err)
}

func (e *SerializeError) Unwrap() error { return e.Err }

// Save writes ast to path in PropScript's binary AST format.
//
// The format is a little-endian encoding of the node pool with every
// size/count prefix (Parents length, Pool length, handle-list lengths,
// string lengths, param-name counts) fixed at 64 bits, regardless of the
// width of the values being counted; every other field keeps the width the
// source gives it (32-bit handles/line/tags/ints, 32-bit floats, 1-byte
// bools). Unlike the format this is grounded on, each field is written
// exactly once. The source's writer serializes an OP node's embedded struct
// (which already contains its left/right handles) and then writes those
// same two handles a second time immediately after — harmless on a round
// trip through its own reader, since the second write simply repeats the
// first, but not a redundancy worth reproducing here.
func Save(path string, ast *Ast) error {
	f, err := os.Create(path)
	if err != nil {
		logrus.WithField("path", path).WithError(err).Error("propscript: failed to create ast file")
		return &SerializeError{Path: path, Err: err}
	}
	defer f.Close()

	if err := WriteAst(f, ast); err != nil {
		return &SerializeError{Path: path, Err: err}
	}
	return nil
}

// Load reads an Ast previously written by Save.
func Load(path string) (*Ast, error) {
	f, err := os.Open(path)
	if err != nil {
		logrus.WithField("path", path).WithError(err).Error("propscript: failed to open ast file")
		return nil, &SerializeError{Path: path, Err: err}
	}
	defer f.Close()

	ast, err := ReadAst(f)
	if err != nil {
		return nil, &SerializeError{Path: path, Err: err}
	}
	return ast, nil
}

func writeU32(w io.Writer, v uint32) error  { return binary.Write(w, binary.LittleEndian, v) }
func writeU64(w io.Writer, v uint64) error  { return binary.Write(w, binary.LittleEndian, v) }
func writeI32(w io.Writer, v int32) error   { return binary.Write(w, binary.LittleEndian, v) }
func writeF32(w io.Writer, v float32) error { return binary.Write(w, binary.LittleEndian, v) }
func writeBool(w io.Writer, v bool) error   { return binary.Write(w, binary.LittleEndian, v) }

// writeHandles writes a 64-bit count prefix followed by that many 32-bit
// handles; the spec fixes every size/count prefix at 64 bits regardless of
// the width of the values being counted.
func writeHandles(w io.Writer, hs []NodeHandle) error {
	if err := writeU64(w, uint64(len(hs))); err != nil {
		return err
	}
	for _, h := range hs {
		if err := writeU32(w, uint32(h)); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := writeU64(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func writeStrings(w io.Writer, ss []string) error {
	if err := writeU64(w, uint64(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// WriteAst encodes ast onto w. Exported so a host can serialize into an
// arbitrary stream (a network connection, an in-memory buffer for
// caching) rather than only a named file.
func WriteAst(w io.Writer, ast *Ast) error {
	if err := writeHandles(w, ast.Parents); err != nil {
		return err
	}

	if err := writeU64(w, uint64(len(ast.Pool))); err != nil {
		return err
	}

	for _, node := range ast.Pool {
		if err := writeU32(w, uint32(node.Kind)); err != nil {
			return err
		}
		if err := writeU32(w, node.Line); err != nil {
			return err
		}

		switch node.Kind {
		case NodeOp:
			if err := writeU32(w, uint32(node.Op.Type)); err != nil {
				return err
			}
			if err := writeU32(w, uint32(node.Op.Left)); err != nil {
				return err
			}
			if err := writeU32(w, uint32(node.Op.Right)); err != nil {
				return err
			}
			if err := writeBool(w, node.Op.InParens); err != nil {
				return err
			}

		case NodeKeyword:
			kw := node.Keyword
			if err := writeU32(w, uint32(kw.Type)); err != nil {
				return err
			}
			if err := writeHandles(w, kw.Code); err != nil {
				return err
			}
			if err := writeU32(w, uint32(kw.Condition)); err != nil {
				return err
			}
			if err := writeBool(w, kw.HasElse); err != nil {
				return err
			}
			if err := writeHandles(w, kw.ElseCode); err != nil {
				return err
			}
			if err := writeString(w, kw.Name); err != nil {
				return err
			}
			if err := writeStrings(w, kw.ParamNames); err != nil {
				return err
			}
			if err := writeU32(w, uint32(kw.ReturnVal)); err != nil {
				return err
			}

		case NodeID:
			id := node.ID
			if err := writeU32(w, uint32(id.Type)); err != nil {
				return err
			}
			if err := writeString(w, id.Name); err != nil {
				return err
			}
			if err := writeHandles(w, id.Params); err != nil {
				return err
			}

		case NodeNumber:
			num := node.Number
			if err := writeU32(w, uint32(num.Type)); err != nil {
				return err
			}
			if err := writeI32(w, num.IntVal); err != nil {
				return err
			}
			if err := writeF32(w, num.FloatVal); err != nil {
				return err
			}
		}
	}

	return nil
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readU64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readF32(r io.Reader) (float32, error) {
	var v float32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readBool(r io.Reader) (bool, error) {
	var v bool
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readHandles(r io.Reader) ([]NodeHandle, error) {
	n, err := readU64(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	hs := make([]NodeHandle, n)
	for i := range hs {
		v, err := readU32(r)
		if err != nil {
			return nil, err
		}
		hs[i] = NodeHandle(v)
	}
	return hs, nil
}

func readString(r io.Reader) (string, error) {
	n, err := readU64(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readStrings(r io.Reader) ([]string, error) {
	n, err := readU64(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ss := make([]string, n)
	for i := range ss {
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		ss[i] = s
	}
	return ss, nil
}

// ReadAst decodes an Ast previously encoded by WriteAst.
func ReadAst(r io.Reader) (*Ast, error) {
	parents, err := readHandles(r)
	if err != nil {
		return nil, err
	}

	poolSize, err := readU64(r)
	if err != nil {
		return nil, err
	}

	pool := make([]Node, poolSize)
	for i := range pool {
		kind, err := readU32(r)
		if err != nil {
			return nil, err
		}
		line, err := readU32(r)
		if err != nil {
			return nil, err
		}

		node := Node{Kind: NodeKind(kind), Line: line}

		switch node.Kind {
		case NodeOp:
			opType, err := readU32(r)
			if err != nil {
				return nil, err
			}
			left, err := readU32(r)
			if err != nil {
				return nil, err
			}
			right, err := readU32(r)
			if err != nil {
				return nil, err
			}
			inParens, err := readBool(r)
			if err != nil {
				return nil, err
			}
			node.Op = OpNode{Type: OpType(opType), Left: NodeHandle(left), Right: NodeHandle(right), InParens: inParens}

		case NodeKeyword:
			kwType, err := readU32(r)
			if err != nil {
				return nil, err
			}
			code, err := readHandles(r)
			if err != nil {
				return nil, err
			}
			condition, err := readU32(r)
			if err != nil {
				return nil, err
			}
			hasElse, err := readBool(r)
			if err != nil {
				return nil, err
			}
			elseCode, err := readHandles(r)
			if err != nil {
				return nil, err
			}
			name, err := readString(r)
			if err != nil {
				return nil, err
			}
			paramNames, err := readStrings(r)
			if err != nil {
				return nil, err
			}
			returnVal, err := readU32(r)
			if err != nil {
				return nil, err
			}
			node.Keyword = KeywordNode{
				Type:       KeywordType(kwType),
				Code:       code,
				Condition:  NodeHandle(condition),
				HasElse:    hasElse,
				ElseCode:   elseCode,
				Name:       name,
				ParamNames: paramNames,
				ReturnVal:  NodeHandle(returnVal),
			}

		case NodeID:
			idType, err := readU32(r)
			if err != nil {
				return nil, err
			}
			name, err := readString(r)
			if err != nil {
				return nil, err
			}
			params, err := readHandles(r)
			if err != nil {
				return nil, err
			}
			node.ID = IDNode{Type: IDType(idType), Name: name, Params: params}

		case NodeNumber:
			litType, err := readU32(r)
			if err != nil {
				return nil, err
			}
			intVal, err := readI32(r)
			if err != nil {
				return nil, err
			}
			floatVal, err := readF32(r)
			if err != nil {
				return nil, err
			}
			node.Number = NumberNode{Type: LiteralType(litType), IntVal: intVal, FloatVal: floatVal}
		}

		pool[i] = node
	}

	return &Ast{Parents: parents, Pool: pool}, nil
}
