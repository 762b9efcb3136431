// Package ident provides stable 128-bit identity for declarations.
//
// Every declaration, field, parameter, and variant in a Sable program owns
// a UUID minted exactly once: by the parser on first sight, or by the
// text<->binary sync pass when it recognizes a declaration surviving an
// edit (see internal/textsync). No other package may mint an ID for a
// node it did not create — that invariant is what makes the binary AST's
// identity stable across arbitrary numbers of edits.
package ident

import "github.com/google/uuid"

// ID is a stable declaration identity. The zero value is not a valid ID;
// use New or Parse to obtain one.
type ID uuid.UUID

// Nil is the zero ID, used for "no cross-reference" slots.
var Nil ID

// New mints a fresh, random identity. Called only from the parser and
// from internal/textsync when a declaration has no match in the prior
// binary.
func New() ID {
	return ID(uuid.New())
}

// String renders the canonical 8-4-4-4-12 hex form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero identity.
func (id ID) IsNil() bool {
	return id == Nil
}

// Parse decodes the canonical string form produced by String.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	return ID(u), nil
}

// MarshalText implements encoding.TextMarshaler so IDs serialize as plain
// strings in the binary codec's gob stream and in any JSON-based tooling.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
