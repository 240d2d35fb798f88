// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package gvariant

import (
	"fmt"
	"strings"
)

// Type codes.
const (
	CodeBool       byte = 'b'
	CodeByte       byte = 'y'
	CodeInt16      byte = 'n'
	CodeUint16     byte = 'q'
	CodeInt32      byte = 'i'
	CodeUint32     byte = 'u'
	CodeInt64      byte = 'x'
	CodeUint64     byte = 't'
	CodeHandle     byte = 'h'
	CodeDouble     byte = 'd'
	CodeString     byte = 's'
	CodeObjectPath byte = 'o'
	CodeSignature  byte = 'g'
	CodeVariant    byte = 'v'
	CodeMaybe      byte = 'm'
	CodeArray      byte = 'a'
	CodeTuple      byte = '('
	CodeDictEntry  byte = '{'
)

// Type is a parsed, definite GVariant type.
//
// Types are immutable once built. Alignment and fixed size are computed at
// construction so that they can be queried repeatedly while decoding.
type Type struct {
	code   byte
	elem   *Type   // arrays and maybes
	fields []*Type // tuples and dict entries

	sig       string
	alignment int
	fixedSize int
}

var (
	TypeBool       = newBasic(CodeBool, 1, 1)
	TypeByte       = newBasic(CodeByte, 1, 1)
	TypeInt16      = newBasic(CodeInt16, 2, 2)
	TypeUint16     = newBasic(CodeUint16, 2, 2)
	TypeInt32      = newBasic(CodeInt32, 4, 4)
	TypeUint32     = newBasic(CodeUint32, 4, 4)
	TypeInt64      = newBasic(CodeInt64, 8, 8)
	TypeUint64     = newBasic(CodeUint64, 8, 8)
	TypeHandle     = newBasic(CodeHandle, 4, 4)
	TypeDouble     = newBasic(CodeDouble, 8, 8)
	TypeString     = newBasic(CodeString, 1, 0)
	TypeObjectPath = newBasic(CodeObjectPath, 1, 0)
	TypeSignature  = newBasic(CodeSignature, 1, 0)
	TypeVariant    = newBasic(CodeVariant, 8, 0)
)

var basicTypes = map[byte]*Type{
	CodeBool:       TypeBool,
	CodeByte:       TypeByte,
	CodeInt16:      TypeInt16,
	CodeUint16:     TypeUint16,
	CodeInt32:      TypeInt32,
	CodeUint32:     TypeUint32,
	CodeInt64:      TypeInt64,
	CodeUint64:     TypeUint64,
	CodeHandle:     TypeHandle,
	CodeDouble:     TypeDouble,
	CodeString:     TypeString,
	CodeObjectPath: TypeObjectPath,
	CodeSignature:  TypeSignature,
	CodeVariant:    TypeVariant,
}

func newBasic(code byte, alignment, fixedSize int) *Type {
	return &Type{code: code, sig: string(code), alignment: alignment, fixedSize: fixedSize}
}

// ArrayOf returns the type of arrays of elem.
func ArrayOf(elem *Type) *Type {
	return &Type{
		code:      CodeArray,
		elem:      elem,
		sig:       "a" + elem.sig,
		alignment: elem.alignment,
	}
}

// MaybeOf returns the type of maybes of elem.
func MaybeOf(elem *Type) *Type {
	return &Type{
		code:      CodeMaybe,
		elem:      elem,
		sig:       "m" + elem.sig,
		alignment: elem.alignment,
	}
}

// TupleOf returns the tuple type with the given members.
func TupleOf(fields ...*Type) *Type {
	t := &Type{code: CodeTuple, fields: fields}
	t.layout("(", ")")
	return t
}

// DictEntryOf returns the dict entry type {key value}. The key must be basic.
func DictEntryOf(key, value *Type) (*Type, error) {
	if !key.IsBasic() {
		return nil, fmt.Errorf("%w: dict entry key %q is not a basic type", ErrInvalidType, key.sig)
	}
	t := &Type{code: CodeDictEntry, fields: []*Type{key, value}}
	t.layout("{", "}")
	return t, nil
}

// layout computes signature, alignment and fixed size for tuples and dict entries.
func (t *Type) layout(open, closing string) {
	var sb strings.Builder
	sb.WriteString(open)

	t.alignment = 1
	fixed := true
	offset := 0
	for _, f := range t.fields {
		sb.WriteString(f.sig)
		if f.alignment > t.alignment {
			t.alignment = f.alignment
		}
		if f.fixedSize == 0 {
			fixed = false
			continue
		}
		offset = alignUp(offset, f.alignment) + f.fixedSize
	}
	sb.WriteString(closing)
	t.sig = sb.String()

	if !fixed {
		return
	}
	if offset == 0 {
		// The unit tuple occupies a single zero byte.
		t.fixedSize = 1
		return
	}
	t.fixedSize = alignUp(offset, t.alignment)
}

// String returns the type signature, e.g. "a{sv}".
func (t *Type) String() string { return t.sig }

// Code returns the leading type code.
func (t *Type) Code() byte { return t.code }

// Elem returns the element type of an array or maybe, or nil.
func (t *Type) Elem() *Type { return t.elem }

// Fields returns the member types of a tuple or dict entry.
func (t *Type) Fields() []*Type { return t.fields }

// Alignment returns the required byte alignment of values of this type.
func (t *Type) Alignment() int { return t.alignment }

// FixedSize returns the serialized size of values of this type, or 0 when
// the size depends on the value.
func (t *Type) FixedSize() int { return t.fixedSize }

// IsBasic reports whether t may be used as a dict entry key.
func (t *Type) IsBasic() bool {
	switch t.code {
	case CodeVariant, CodeMaybe, CodeArray, CodeTuple, CodeDictEntry:
		return false
	}
	return true
}

// IsDict reports whether t is an array of dict entries.
func (t *Type) IsDict() bool {
	return t.code == CodeArray && t.elem.code == CodeDictEntry
}

// Equal reports whether two types have the same signature.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.sig == other.sig
}

// ParseType parses a single complete type signature.
func ParseType(sig string) (*Type, error) {
	t, rest, err := parseOne(sig)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("%w: trailing characters %q in %q", ErrInvalidType, rest, sig)
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error. It is intended for
// package-level signature declarations.
func MustParseType(sig string) *Type {
	t, err := ParseType(sig)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseSignature parses a D-Bus style signature: zero or more concatenated
// complete types.
func ParseSignature(sig string) ([]*Type, error) {
	var types []*Type
	for rest := sig; rest != ""; {
		t, r, err := parseOne(rest)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		rest = r
	}
	return types, nil
}

// maxDepth bounds container nesting in signatures.
const maxDepth = 64

func parseOne(sig string) (*Type, string, error) {
	return parseDepth(sig, 0)
}

func parseDepth(sig string, depth int) (*Type, string, error) {
	if depth > maxDepth {
		return nil, "", fmt.Errorf("%w: nesting too deep", ErrInvalidType)
	}
	if sig == "" {
		return nil, "", fmt.Errorf("%w: unexpected end of signature", ErrInvalidType)
	}

	code := sig[0]
	if t, ok := basicTypes[code]; ok {
		return t, sig[1:], nil
	}

	switch code {
	case CodeArray, CodeMaybe:
		elem, rest, err := parseDepth(sig[1:], depth+1)
		if err != nil {
			return nil, "", err
		}
		if code == CodeArray {
			return ArrayOf(elem), rest, nil
		}
		return MaybeOf(elem), rest, nil

	case CodeTuple:
		rest := sig[1:]
		var fields []*Type
		for {
			if rest == "" {
				return nil, "", fmt.Errorf("%w: unterminated tuple", ErrInvalidType)
			}
			if rest[0] == ')' {
				return TupleOf(fields...), rest[1:], nil
			}
			f, r, err := parseDepth(rest, depth+1)
			if err != nil {
				return nil, "", err
			}
			fields = append(fields, f)
			rest = r
		}

	case CodeDictEntry:
		key, rest, err := parseDepth(sig[1:], depth+1)
		if err != nil {
			return nil, "", err
		}
		value, rest, err := parseDepth(rest, depth+1)
		if err != nil {
			return nil, "", err
		}
		if rest == "" || rest[0] != '}' {
			return nil, "", fmt.Errorf("%w: dict entry must have exactly two members", ErrInvalidType)
		}
		t, err := DictEntryOf(key, value)
		if err != nil {
			return nil, "", err
		}
		return t, rest[1:], nil
	}

	return nil, "", fmt.Errorf("%w: unknown type code %q", ErrInvalidType, code)
}

func alignUp(offset, alignment int) int {
	return (offset + alignment - 1) &^ (alignment - 1)
}
