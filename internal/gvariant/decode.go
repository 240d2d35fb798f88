// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package gvariant

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// maxVariantDepth bounds variant-in-variant nesting while decoding.
const maxVariantDepth = 64

// Parse decodes data as a value of the given signature and verifies that data
// is the normal-form encoding of the result.
func Parse(signature string, data []byte) (Value, error) {
	t, err := ParseType(signature)
	if err != nil {
		return nil, err
	}
	return ParseAs(t, data)
}

// ParseAs is like Parse for an already parsed type.
func ParseAs(t *Type, data []byte) (Value, error) {
	v, err := decode(t, data, 0)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(Marshal(v), data) {
		return nil, fmt.Errorf("%w: %d bytes as %s", ErrNotNormalForm, len(data), t)
	}
	return v, nil
}

func decode(t *Type, data []byte, depth int) (Value, error) {
	if fixed := t.FixedSize(); fixed > 0 && len(data) != fixed {
		return nil, malformed(t, "expected %d bytes, got %d", fixed, len(data))
	}

	switch t.code {
	case CodeBool:
		switch data[0] {
		case 0:
			return Bool(false), nil
		case 1:
			return Bool(true), nil
		}
		return nil, malformed(t, "boolean byte 0x%02x", data[0])
	case CodeByte:
		return Byte(data[0]), nil
	case CodeInt16:
		return Int16(binary.LittleEndian.Uint16(data)), nil
	case CodeUint16:
		return Uint16(binary.LittleEndian.Uint16(data)), nil
	case CodeInt32:
		return Int32(binary.LittleEndian.Uint32(data)), nil
	case CodeUint32:
		return Uint32(binary.LittleEndian.Uint32(data)), nil
	case CodeHandle:
		return Handle(binary.LittleEndian.Uint32(data)), nil
	case CodeInt64:
		return Int64(binary.LittleEndian.Uint64(data)), nil
	case CodeUint64:
		return Uint64(binary.LittleEndian.Uint64(data)), nil
	case CodeDouble:
		return Double(math.Float64frombits(binary.LittleEndian.Uint64(data))), nil
	case CodeString:
		s, err := decodeString(t, data)
		return String(s), err
	case CodeObjectPath:
		s, err := decodeString(t, data)
		if err == nil && !validObjectPath(s) {
			err = malformed(t, "invalid object path %q", s)
		}
		return ObjectPath(s), err
	case CodeSignature:
		s, err := decodeString(t, data)
		if err == nil {
			if _, perr := ParseSignature(s); perr != nil {
				err = malformed(t, "invalid signature %q", s)
			}
		}
		return Signature(s), err
	case CodeVariant:
		return decodeVariant(data, depth)
	case CodeMaybe:
		return decodeMaybe(t, data, depth)
	case CodeArray:
		return decodeArray(t, data, depth)
	case CodeTuple:
		members, err := decodeMembers(t, data, depth)
		if err != nil {
			return nil, err
		}
		return Tuple(members), nil
	case CodeDictEntry:
		members, err := decodeMembers(t, data, depth)
		if err != nil {
			return nil, err
		}
		return DictEntry{Key: members[0], Value: members[1]}, nil
	}
	return nil, malformed(t, "unsupported type")
}

func decodeString(t *Type, data []byte) (string, error) {
	if len(data) == 0 || data[len(data)-1] != 0 {
		return "", malformed(t, "string is not nul-terminated")
	}
	s := data[:len(data)-1]
	if bytes.IndexByte(s, 0) >= 0 {
		return "", malformed(t, "string contains an embedded nul")
	}
	if !utf8.Valid(s) {
		return "", malformed(t, "string is not valid UTF-8")
	}
	return string(s), nil
}

func decodeVariant(data []byte, depth int) (Value, error) {
	if depth >= maxVariantDepth {
		return nil, malformed(TypeVariant, "variants nested too deeply")
	}
	sep := bytes.LastIndexByte(data, 0)
	if sep < 0 {
		return nil, malformed(TypeVariant, "missing type separator")
	}

	child, err := ParseType(string(data[sep+1:]))
	if err != nil {
		return nil, malformed(TypeVariant, "bad child type %q", data[sep+1:])
	}
	v, err := decode(child, data[:sep], depth+1)
	if err != nil {
		return nil, err
	}
	return Variant{Value: v}, nil
}

func decodeMaybe(t *Type, data []byte, depth int) (Value, error) {
	if len(data) == 0 {
		return Maybe{Elem: t.elem}, nil
	}

	child := data
	if t.elem.FixedSize() == 0 {
		if data[len(data)-1] != 0 {
			return nil, malformed(t, "missing trailing nul after variable-size element")
		}
		child = data[:len(data)-1]
	}
	v, err := decode(t.elem, child, depth)
	if err != nil {
		return nil, err
	}
	return Maybe{Elem: t.elem, Value: v}, nil
}

func decodeArray(t *Type, data []byte, depth int) (Value, error) {
	arr := Array{Elem: t.elem}
	if len(data) == 0 {
		return arr, nil
	}

	if fixed := t.elem.FixedSize(); fixed > 0 {
		if len(data)%fixed != 0 {
			return nil, malformed(t, "%d bytes is not a multiple of element size %d", len(data), fixed)
		}
		arr.Values = make([]Value, 0, len(data)/fixed)
		for off := 0; off < len(data); off += fixed {
			v, err := decode(t.elem, data[off:off+fixed], depth)
			if err != nil {
				return nil, err
			}
			arr.Values = append(arr.Values, v)
		}
		return arr, nil
	}

	size := offsetSizeForContainer(len(data))
	if size > len(data) {
		return nil, malformed(t, "container too small for framing")
	}
	lastEnd := readOffset(data[len(data)-size:], size)
	if lastEnd > uint64(len(data)) {
		return nil, malformed(t, "framing offset %d out of range", lastEnd)
	}
	offsetsLen := len(data) - int(lastEnd)
	if offsetsLen%size != 0 || offsetsLen == 0 {
		return nil, malformed(t, "framing offsets do not divide evenly")
	}

	n := offsetsLen / size
	offsets := data[lastEnd:]
	arr.Values = make([]Value, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		end := readOffset(offsets[i*size:(i+1)*size], size)
		start = alignUp(start, t.elem.Alignment())
		if end > lastEnd || uint64(start) > end {
			return nil, malformed(t, "element %d has invalid bounds [%d, %d)", i, start, end)
		}
		v, err := decode(t.elem, data[start:end], depth)
		if err != nil {
			return nil, err
		}
		arr.Values = append(arr.Values, v)
		start = int(end)
	}
	return arr, nil
}

func decodeMembers(t *Type, data []byte, depth int) ([]Value, error) {
	if len(t.fields) == 0 {
		// Unit: a single zero byte, already length-checked as fixed size.
		return []Value{}, nil
	}

	size := offsetSizeForContainer(len(data))
	offsetsEnd := len(data)
	start := 0
	members := make([]Value, 0, len(t.fields))

	for i, ft := range t.fields {
		start = alignUp(start, ft.Alignment())

		var end int
		switch {
		case ft.FixedSize() > 0:
			end = start + ft.FixedSize()
		case i == len(t.fields)-1:
			end = offsetsEnd
		default:
			if offsetsEnd-size < start || size == 0 {
				return nil, malformed(t, "missing framing offset for member %d", i)
			}
			off := readOffset(data[offsetsEnd-size:offsetsEnd], size)
			offsetsEnd -= size
			if off > uint64(offsetsEnd) {
				return nil, malformed(t, "framing offset %d out of range", off)
			}
			end = int(off)
		}

		if start > end || end > offsetsEnd {
			return nil, malformed(t, "member %d has invalid bounds [%d, %d)", i, start, end)
		}
		v, err := decode(ft, data[start:end], depth)
		if err != nil {
			return nil, err
		}
		members = append(members, v)
		start = end
	}
	return members, nil
}

func readOffset(b []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}

func validObjectPath(p string) bool {
	if p == "/" {
		return true
	}
	if len(p) < 2 || p[0] != '/' || p[len(p)-1] == '/' {
		return false
	}
	prevSlash := true
	for i := 1; i < len(p); i++ {
		c := p[i]
		switch {
		case c == '/':
			if prevSlash {
				return false
			}
			prevSlash = true
		case c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z'):
			prevSlash = false
		default:
			return false
		}
	}
	return true
}

// IsNormalFormError reports whether err came from a normal-form or structural
// decoding failure rather than a bad signature.
func IsNormalFormError(err error) bool {
	return errors.Is(err, ErrNotNormalForm) || errors.Is(err, ErrMalformed)
}
