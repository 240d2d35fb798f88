// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package gvariant

import "strconv"

// Value is a decoded GVariant value.
type Value interface {
	// Type returns the runtime type of the value.
	Type() *Type
	isValue()
}

type (
	Bool       bool
	Byte       uint8
	Int16      int16
	Uint16     uint16
	Int32      int32
	Uint32     uint32
	Int64      int64
	Uint64     uint64
	Handle     int32
	Double     float64
	String     string
	ObjectPath string
	Signature  string
)

// Variant boxes a value together with its type.
type Variant struct {
	Value Value
}

// Maybe is either Nothing (Value == nil) or Just Value.
type Maybe struct {
	Elem  *Type
	Value Value
}

// Array is a homogeneous sequence of values of type Elem.
type Array struct {
	Elem   *Type
	Values []Value
}

// Tuple is a fixed sequence of heterogeneous values.
type Tuple []Value

// DictEntry is a key/value pair, usually found inside a dictionary array.
type DictEntry struct {
	Key   Value
	Value Value
}

func (Bool) Type() *Type       { return TypeBool }
func (Byte) Type() *Type       { return TypeByte }
func (Int16) Type() *Type      { return TypeInt16 }
func (Uint16) Type() *Type     { return TypeUint16 }
func (Int32) Type() *Type      { return TypeInt32 }
func (Uint32) Type() *Type     { return TypeUint32 }
func (Int64) Type() *Type      { return TypeInt64 }
func (Uint64) Type() *Type     { return TypeUint64 }
func (Handle) Type() *Type     { return TypeHandle }
func (Double) Type() *Type     { return TypeDouble }
func (String) Type() *Type     { return TypeString }
func (ObjectPath) Type() *Type { return TypeObjectPath }
func (Signature) Type() *Type  { return TypeSignature }
func (Variant) Type() *Type    { return TypeVariant }
func (m Maybe) Type() *Type    { return MaybeOf(m.Elem) }
func (a Array) Type() *Type    { return ArrayOf(a.Elem) }

func (t Tuple) Type() *Type {
	fields := make([]*Type, len(t))
	for i, v := range t {
		fields[i] = v.Type()
	}
	return TupleOf(fields...)
}

func (d DictEntry) Type() *Type {
	t, err := DictEntryOf(d.Key.Type(), d.Value.Type())
	if err != nil {
		// Only reachable for hand-built entries with a container key.
		panic(err)
	}
	return t
}

func (Bool) isValue()       {}
func (Byte) isValue()       {}
func (Int16) isValue()      {}
func (Uint16) isValue()     {}
func (Int32) isValue()      {}
func (Uint32) isValue()     {}
func (Int64) isValue()      {}
func (Uint64) isValue()     {}
func (Handle) isValue()     {}
func (Double) isValue()     {}
func (String) isValue()     {}
func (ObjectPath) isValue() {}
func (Signature) isValue()  {}
func (Variant) isValue()    {}
func (Maybe) isValue()      {}
func (Array) isValue()      {}
func (Tuple) isValue()      {}
func (DictEntry) isValue()  {}

// Nothing returns an empty maybe of the given element type.
func Nothing(elem *Type) Maybe { return Maybe{Elem: elem} }

// Just wraps v in a maybe.
func Just(v Value) Maybe { return Maybe{Elem: v.Type(), Value: v} }

// IsNothing reports whether m holds no value.
func (m Maybe) IsNothing() bool { return m.Value == nil }

// NewArray builds an array of elem. Every value must have type elem.
func NewArray(elem *Type, values ...Value) Array {
	return Array{Elem: elem, Values: values}
}

// Bytes builds an "ay" array from a byte slice.
func Bytes(b []byte) Array {
	values := make([]Value, len(b))
	for i, c := range b {
		values[i] = Byte(c)
	}
	return Array{Elem: TypeByte, Values: values}
}

// Strings builds an "as" array.
func Strings(ss ...string) Array {
	values := make([]Value, len(ss))
	for i, s := range ss {
		values[i] = String(s)
	}
	return Array{Elem: TypeString, Values: values}
}

// Dict builds a dictionary array. The entry type comes from keyType and
// valueType so that empty dicts keep a complete type.
func Dict(keyType, valueType *Type, entries ...DictEntry) Array {
	elem, err := DictEntryOf(keyType, valueType)
	if err != nil {
		panic(err)
	}
	values := make([]Value, len(entries))
	for i, e := range entries {
		values[i] = e
	}
	return Array{Elem: elem, Values: values}
}

// Children returns the direct children of a container value, or nil for
// basic values.
func Children(v Value) []Value {
	switch c := v.(type) {
	case Variant:
		return []Value{c.Value}
	case Maybe:
		if c.Value == nil {
			return nil
		}
		return []Value{c.Value}
	case Array:
		return c.Values
	case Tuple:
		return c
	case DictEntry:
		return []Value{c.Key, c.Value}
	}
	return nil
}

// Len returns the number of direct children of v.
func Len(v Value) int {
	return len(Children(v))
}

// ChildAt returns the i-th direct child of a container value.
func ChildAt(v Value, i int) (Value, error) {
	children := Children(v)
	if i < 0 || i >= len(children) {
		return nil, &IndexError{Type: v.Type(), Index: i, Len: len(children)}
	}
	return children[i], nil
}

// IndexError is returned by ChildAt for out-of-range indices.
type IndexError struct {
	Type  *Type
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return "gvariant: index " + strconv.Itoa(e.Index) + " out of range for " + e.Type.String() +
		" with " + strconv.Itoa(e.Len) + " children"
}
