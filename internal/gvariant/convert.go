// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package gvariant

import (
	"fmt"

	"github.com/google/uuid"
)

// Unwrap follows a chain of variant boxes and returns the first value that is
// not itself a variant.
func Unwrap(v Value) Value {
	for {
		boxed, ok := v.(Variant)
		if !ok {
			return v
		}
		v = boxed.Value
	}
}

// AsBytes converts an "ay" array to a byte slice.
func AsBytes(v Value) ([]byte, error) {
	a, ok := v.(Array)
	if !ok || a.Elem.Code() != CodeByte {
		return nil, mismatch("ay", v)
	}
	out := make([]byte, len(a.Values))
	for i, b := range a.Values {
		out[i] = byte(b.(Byte))
	}
	return out, nil
}

// AsUUID converts a 16 byte "ay" array to a UUID.
func AsUUID(v Value) (uuid.UUID, error) {
	b, err := AsBytes(v)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: UUID needs 16 bytes, got %d", ErrTypeMismatch, len(b))
	}
	return id, nil
}

// AsStrings converts an "as" array to a string slice.
func AsStrings(v Value) ([]string, error) {
	a, ok := v.(Array)
	if !ok || a.Elem.Code() != CodeString {
		return nil, mismatch("as", v)
	}
	out := make([]string, len(a.Values))
	for i, s := range a.Values {
		out[i] = string(s.(String))
	}
	return out, nil
}

// AsStringMap converts an "a{ss}" dictionary to a map. Later keys win.
func AsStringMap(v Value) (map[string]string, error) {
	a, ok := v.(Array)
	if !ok || a.Elem.String() != "{ss}" {
		return nil, mismatch("a{ss}", v)
	}
	out := make(map[string]string, len(a.Values))
	for _, e := range a.Values {
		entry := e.(DictEntry)
		out[string(entry.Key.(String))] = string(entry.Value.(String))
	}
	return out, nil
}

// AsVariantMap converts an "a{sv}" dictionary to a map of unboxed values.
func AsVariantMap(v Value) (map[string]Value, error) {
	a, ok := v.(Array)
	if !ok || a.Elem.String() != "{sv}" {
		return nil, mismatch("a{sv}", v)
	}
	out := make(map[string]Value, len(a.Values))
	for _, e := range a.Values {
		entry := e.(DictEntry)
		out[string(entry.Key.(String))] = entry.Value.(Variant).Value
	}
	return out, nil
}

// Native converts v to plain Go values suitable for JSON encoding: numbers,
// strings, bools, []interface{} for arrays and tuples, map[string]interface{}
// for dictionaries with string keys, and nil for Nothing.
func Native(v Value) interface{} {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Byte:
		return uint8(x)
	case Int16:
		return int16(x)
	case Uint16:
		return uint16(x)
	case Int32:
		return int32(x)
	case Uint32:
		return uint32(x)
	case Int64:
		return int64(x)
	case Uint64:
		return uint64(x)
	case Handle:
		return int32(x)
	case Double:
		return float64(x)
	case String:
		return string(x)
	case ObjectPath:
		return string(x)
	case Signature:
		return string(x)
	case Variant:
		return Native(x.Value)
	case Maybe:
		if x.Value == nil {
			return nil
		}
		return Native(x.Value)
	case Array:
		if x.Elem.Code() == CodeDictEntry {
			if key := x.Elem.Fields()[0].Code(); key == CodeString || key == CodeObjectPath || key == CodeSignature {
				out := make(map[string]interface{}, len(x.Values))
				for _, e := range x.Values {
					entry := e.(DictEntry)
					out[fmt.Sprint(Native(entry.Key))] = Native(entry.Value)
				}
				return out
			}
		}
		out := make([]interface{}, len(x.Values))
		for i, e := range x.Values {
			out[i] = Native(e)
		}
		return out
	case Tuple:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = Native(e)
		}
		return out
	case DictEntry:
		return []interface{}{Native(x.Key), Native(x.Value)}
	}
	return nil
}

func mismatch(want string, got Value) error {
	if got == nil {
		return fmt.Errorf("%w: want %s, got nothing", ErrTypeMismatch, want)
	}
	return fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, got.Type())
}
