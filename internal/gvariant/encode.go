// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package gvariant

import (
	"encoding/binary"
	"math"
)

// Marshal returns the normal-form serialization of v.
func Marshal(v Value) []byte {
	return appendValue(nil, v)
}

func appendValue(buf []byte, v Value) []byte {
	switch x := v.(type) {
	case Bool:
		if x {
			return append(buf, 1)
		}
		return append(buf, 0)
	case Byte:
		return append(buf, byte(x))
	case Int16:
		return binary.LittleEndian.AppendUint16(buf, uint16(x))
	case Uint16:
		return binary.LittleEndian.AppendUint16(buf, uint16(x))
	case Int32:
		return binary.LittleEndian.AppendUint32(buf, uint32(x))
	case Uint32:
		return binary.LittleEndian.AppendUint32(buf, uint32(x))
	case Handle:
		return binary.LittleEndian.AppendUint32(buf, uint32(x))
	case Int64:
		return binary.LittleEndian.AppendUint64(buf, uint64(x))
	case Uint64:
		return binary.LittleEndian.AppendUint64(buf, uint64(x))
	case Double:
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(float64(x)))
	case String:
		return append(append(buf, x...), 0)
	case ObjectPath:
		return append(append(buf, x...), 0)
	case Signature:
		return append(append(buf, x...), 0)
	case Variant:
		buf = append(buf, Marshal(x.Value)...)
		buf = append(buf, 0)
		return append(buf, x.Value.Type().String()...)
	case Maybe:
		if x.Value == nil {
			return buf
		}
		buf = append(buf, Marshal(x.Value)...)
		if x.Elem.FixedSize() == 0 {
			buf = append(buf, 0)
		}
		return buf
	case Array:
		return append(buf, marshalArray(x)...)
	case Tuple:
		return append(buf, marshalMembers(x.Type(), x)...)
	case DictEntry:
		return append(buf, marshalMembers(x.Type(), []Value{x.Key, x.Value})...)
	}
	panic("gvariant: unsupported value type")
}

func marshalArray(a Array) []byte {
	if len(a.Values) == 0 {
		return nil
	}

	var body []byte
	if a.Elem.FixedSize() > 0 {
		for _, v := range a.Values {
			body = appendValue(body, v)
		}
		return body
	}

	ends := make([]int, 0, len(a.Values))
	for _, v := range a.Values {
		body = pad(body, a.Elem.Alignment())
		body = appendValue(body, v)
		ends = append(ends, len(body))
	}
	return appendOffsets(body, ends)
}

// marshalMembers serializes tuple and dict entry members. Framing offsets for
// every variable-size member except the last are stored in reverse order at
// the end of the container.
func marshalMembers(t *Type, members []Value) []byte {
	if len(members) == 0 {
		return []byte{0}
	}

	var body []byte
	var ends []int
	for i, v := range members {
		ft := t.fields[i]
		body = pad(body, ft.Alignment())
		body = appendValue(body, v)
		if ft.FixedSize() == 0 && i < len(members)-1 {
			ends = append(ends, len(body))
		}
	}

	if t.FixedSize() > 0 {
		return pad(body, t.Alignment())
	}
	if len(ends) == 0 {
		return body
	}

	for i, j := 0, len(ends)-1; i < j; i, j = i+1, j-1 {
		ends[i], ends[j] = ends[j], ends[i]
	}
	return appendOffsets(body, ends)
}

func appendOffsets(body []byte, offsets []int) []byte {
	size := offsetSizeForBody(len(body), len(offsets))
	for _, off := range offsets {
		body = appendOffset(body, off, size)
	}
	return body
}

func appendOffset(buf []byte, off, size int) []byte {
	switch size {
	case 1:
		return append(buf, byte(off))
	case 2:
		return binary.LittleEndian.AppendUint16(buf, uint16(off))
	case 4:
		return binary.LittleEndian.AppendUint32(buf, uint32(off))
	default:
		return binary.LittleEndian.AppendUint64(buf, uint64(off))
	}
}

// offsetSizeForBody returns the smallest framing offset size able to address
// a container holding bodyLen bytes of content and n offsets.
func offsetSizeForBody(bodyLen, n int) int {
	switch {
	case bodyLen+n <= math.MaxUint8:
		return 1
	case bodyLen+2*n <= math.MaxUint16:
		return 2
	case uint64(bodyLen)+4*uint64(n) <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

// offsetSizeForContainer returns the framing offset size implied by the total
// container size when decoding.
func offsetSizeForContainer(size int) int {
	switch {
	case size == 0:
		return 0
	case size <= math.MaxUint8:
		return 1
	case size <= math.MaxUint16:
		return 2
	case uint64(size) <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

func pad(buf []byte, alignment int) []byte {
	for len(buf)%alignment != 0 {
		buf = append(buf, 0)
	}
	return buf
}
