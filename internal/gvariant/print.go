// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package gvariant

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Print renders v in the GVariant text format, e.g. ('a', [1, 2]) or 'Up!'.
// Values inside variants are annotated with their type where the text alone
// would be ambiguous, as GLib does.
func Print(v Value) string {
	var sb strings.Builder
	printValue(&sb, v, false)
	return sb.String()
}

func printValue(sb *strings.Builder, v Value, annotate bool) {
	switch x := v.(type) {
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(x)))
	case Byte:
		if annotate {
			sb.WriteString("byte ")
		}
		fmt.Fprintf(sb, "0x%02x", uint8(x))
	case Int16:
		printInt(sb, annotate, "int16 ", int64(x))
	case Uint16:
		printUint(sb, annotate, "uint16 ", uint64(x))
	case Int32:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
	case Uint32:
		printUint(sb, annotate, "uint32 ", uint64(x))
	case Int64:
		printInt(sb, annotate, "int64 ", int64(x))
	case Uint64:
		printUint(sb, annotate, "uint64 ", uint64(x))
	case Handle:
		printInt(sb, annotate, "handle ", int64(x))
	case Double:
		printDouble(sb, float64(x))
	case String:
		sb.WriteString(quote(string(x)))
	case ObjectPath:
		if annotate {
			sb.WriteString("objectpath ")
		}
		sb.WriteString(quote(string(x)))
	case Signature:
		if annotate {
			sb.WriteString("signature ")
		}
		sb.WriteString(quote(string(x)))
	case Variant:
		sb.WriteByte('<')
		printValue(sb, x.Value, true)
		sb.WriteByte('>')
	case Maybe:
		printMaybe(sb, x, annotate)
	case Array:
		printArray(sb, x, annotate)
	case Tuple:
		sb.WriteByte('(')
		for i, m := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			printValue(sb, m, annotate)
		}
		if len(x) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case DictEntry:
		sb.WriteByte('{')
		printValue(sb, x.Key, annotate)
		sb.WriteString(", ")
		printValue(sb, x.Value, annotate)
		sb.WriteByte('}')
	}
}

func printInt(sb *strings.Builder, annotate bool, prefix string, n int64) {
	if annotate {
		sb.WriteString(prefix)
	}
	sb.WriteString(strconv.FormatInt(n, 10))
}

func printUint(sb *strings.Builder, annotate bool, prefix string, n uint64) {
	if annotate {
		sb.WriteString(prefix)
	}
	sb.WriteString(strconv.FormatUint(n, 10))
}

func printDouble(sb *strings.Builder, f float64) {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	sb.WriteString(s)
}

func printMaybe(sb *strings.Builder, m Maybe, annotate bool) {
	if annotate {
		sb.WriteString("@" + m.Type().String() + " ")
	}
	if m.Value == nil {
		sb.WriteString("nothing")
		return
	}
	// "just" is only needed to tell a nested nothing apart from nothing.
	if inner, ok := m.Value.(Maybe); ok && containsNothing(inner) {
		sb.WriteString("just ")
	}
	printValue(sb, m.Value, false)
}

func containsNothing(m Maybe) bool {
	for {
		if m.Value == nil {
			return true
		}
		inner, ok := m.Value.(Maybe)
		if !ok {
			return false
		}
		m = inner
	}
}

func printArray(sb *strings.Builder, a Array, annotate bool) {
	if len(a.Values) == 0 {
		if annotate {
			sb.WriteString("@" + a.Type().String() + " ")
		}
		if a.Elem.Code() == CodeDictEntry {
			sb.WriteString("{}")
		} else {
			sb.WriteString("[]")
		}
		return
	}

	if a.Elem.Code() == CodeDictEntry {
		sb.WriteByte('{')
		for i, v := range a.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			e := v.(DictEntry)
			printValue(sb, e.Key, annotate && i == 0)
			sb.WriteString(": ")
			printValue(sb, e.Value, annotate && i == 0)
		}
		sb.WriteByte('}')
		return
	}

	sb.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteString(", ")
		}
		printValue(sb, v, annotate && i == 0)
	}
	sb.WriteByte(']')
}

// quote renders s as a GVariant string literal. Single quotes are preferred;
// double quotes are used when s contains a single quote but no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		switch r {
		case rune(q), '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\v':
			sb.WriteString(`\v`)
		default:
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
			} else if r <= 0xffff {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				fmt.Fprintf(&sb, `\U%08x`, r)
			}
		}
	}
	sb.WriteByte(q)
	return sb.String()
}
