// Package codec implements the binary AST file format (spec.md 4.2,
// 6.1): a fixed header followed by a gob-encoded payload carrying the
// full AST, the canonical source text, and the derived-info sidecar.
package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/derived"
	"github.com/sablelang/sablec/internal/errors"
)

// Magic identifies a sablec binary AST file.
var Magic = [4]byte{'S', 'A', 'B', 'L'}

// Version is the current format version written by Encode.
const Version uint32 = 1

// Header is the fixed-size prefix of every binary AST file.
type Header struct {
	Magic   [4]byte
	Version uint32
}

// File is the full decoded payload: AST, source, and derived-info
// sidecar. Derived may be nil (and stale) if the analyzer has not yet
// run over this program.
type File struct {
	Program *ast.Program
	Source  string
	Derived *derived.Snapshot
}

func init() {
	for _, v := range []interface{}{
		&ast.Identifier{}, &ast.Literal{}, &ast.BinaryOp{}, &ast.UnaryOp{},
		&ast.ClosureCreate{}, &ast.FuncCall{}, &ast.MethodCall{}, &ast.Construct{},
		&ast.EnumConstruct{}, &ast.Let{}, &ast.Block{}, &ast.If{}, &ast.While{},
		&ast.For{}, &ast.Match{}, &ast.List{}, &ast.Record{}, &ast.RecordAccess{},
		&ast.Assign{}, &ast.FieldAssign{}, &ast.IndexAssign{}, &ast.Raise{},
		&ast.Propagate{}, &ast.Catch{}, &ast.NullPropagate{}, &ast.Old{},
		&ast.Send{}, &ast.Recv{}, &ast.ChanDecl{}, &ast.Select{}, &ast.Spawn{},
		&ast.Yield{}, &ast.ScopeBlock{}, &ast.Expect{}, &ast.Intrinsic{},
		&ast.QualifiedAccess{}, &ast.Return{}, &ast.Break{}, &ast.Continue{},
		&ast.WildcardPattern{}, &ast.VarPattern{}, &ast.LitPattern{},
		&ast.ConstructorPattern{}, &ast.ListPattern{}, &ast.RecordPattern{},
		&ast.Named{}, &ast.Array{}, &ast.Qualified{}, &ast.Fn{}, &ast.Generic{},
		&ast.Nullable{}, &ast.Stream{},
	} {
		gob.Register(v)
	}
}

// Encode writes f to w as a complete binary AST file: header, then the
// gob-encoded payload.
func Encode(w io.Writer, f *File) error {
	h := Header{Magic: Magic, Version: Version}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	enc := gob.NewEncoder(w)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("%s: %w", errors.BIN003, err)
	}
	return nil
}

// Decode reads a binary AST file from r, validating the header before
// attempting to decode the payload.
func Decode(r io.Reader) (*File, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%s: bad magic number", errors.BIN001)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%s: unsupported format version %d", errors.BIN002, h.Version)
	}
	f := &File{}
	dec := gob.NewDecoder(r)
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("%s: %w", errors.BIN003, err)
	}
	return f, nil
}

// IsBinaryFormat reports whether data opens with a valid sablec binary
// header, without attempting to decode the payload.
func IsBinaryFormat(data []byte) bool {
	h, err := readHeader(bytes.NewReader(data))
	if err != nil {
		return false
	}
	return h.Magic == Magic
}

func writeHeader(w io.Writer, h Header) error {
	if _, err := w.Write(h.Magic[:]); err != nil {
		return err
	}
	return writeUint32(w, h.Version)
}

func readHeader(r io.Reader) (Header, error) {
	var h Header
	if _, err := io.ReadFull(r, h.Magic[:]); err != nil {
		return h, fmt.Errorf("%s: %w", errors.BIN001, err)
	}
	v, err := readUint32(r)
	if err != nil {
		return h, fmt.Errorf("%s: %w", errors.BIN002, err)
	}
	h.Version = v
	return h, nil
}

func writeUint32(w io.Writer, v uint32) error {
	buf := []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	_, err := w.Write(buf)
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}
