// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package events

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/models"
)

// Fields validates payload against the definition and returns the event specific
// columns. Variant-of-variant wrappers are unwrapped before the signature is
// compared. Specs without payload ignore whatever was sent.
func (s *Spec) Fields(payload gvariant.Maybe) (models.Fields, error) {
	if s.Payload == nil {
		return models.Fields{}, nil
	}
	if payload.IsNothing() {
		return nil, &EmptyPayloadError{EventID: s.ID, Signature: s.Payload.String()}
	}

	v := gvariant.Unwrap(payload.Value)
	if !v.Type().Equal(s.Payload) {
		return nil, &WrongPayloadError{
			EventID:   s.ID,
			Signature: s.Payload.String(),
			Got:       gvariant.Print(v),
			GotType:   v.Type().String(),
		}
	}

	fields, err := s.Build(v)
	if err != nil {
		return nil, &BuildError{EventID: s.ID, Err: err}
	}
	return fields, nil
}

// direct maps the members of a tuple payload, or a single non-tuple payload,
// onto the named columns in order.
func direct(names ...string) Builder {
	return func(payload gvariant.Value) (models.Fields, error) {
		members, ok := payload.(gvariant.Tuple)
		if !ok {
			members = gvariant.Tuple{payload}
		}
		if len(members) != len(names) {
			return nil, fmt.Errorf("expected %d values, got %d", len(names), len(members))
		}

		fields := make(models.Fields, len(names))
		for i, name := range names {
			value, err := columnValue(members[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", name, err)
			}
			fields[i] = models.Field{Name: name, Value: value}
		}
		return fields, nil
	}
}

// asJSON stores the whole payload in a single jsonb column.
func asJSON(name string) Builder {
	return func(payload gvariant.Value) (models.Fields, error) {
		b, err := jsonColumn(payload)
		if err != nil {
			return nil, err
		}
		return models.Fields{{Name: name, Value: b}}, nil
	}
}

// columnValue converts a payload value to a database parameter. Unsigned
// 64 bit integers are clamped to the signed bigint range; containers other
// than string and byte arrays are stored as JSON.
func columnValue(v gvariant.Value) (interface{}, error) {
	switch x := v.(type) {
	case gvariant.Bool:
		return bool(x), nil
	case gvariant.Byte:
		return int16(x), nil
	case gvariant.Int16:
		return int64(x), nil
	case gvariant.Uint16:
		return int64(x), nil
	case gvariant.Int32:
		return int64(x), nil
	case gvariant.Uint32:
		return int64(x), nil
	case gvariant.Int64:
		return int64(x), nil
	case gvariant.Uint64:
		return ClampInt64(uint64(x)), nil
	case gvariant.Handle:
		return int64(x), nil
	case gvariant.Double:
		return float64(x), nil
	case gvariant.String:
		return string(x), nil
	case gvariant.ObjectPath:
		return string(x), nil
	case gvariant.Signature:
		return string(x), nil
	case gvariant.Array:
		switch x.Elem.Code() {
		case gvariant.CodeString:
			return gvariant.AsStrings(x)
		case gvariant.CodeByte:
			return gvariant.AsBytes(x)
		}
	}
	return jsonColumn(v)
}

func jsonColumn(v gvariant.Value) ([]byte, error) {
	b, err := json.Marshal(gvariant.Native(v))
	if err != nil {
		return nil, fmt.Errorf("encoding %s as JSON: %w", v.Type(), err)
	}
	return b, nil
}

// ClampInt64 converts u to int64, saturating at math.MaxInt64.
func ClampInt64(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

func col(name, sqlType string) models.Column {
	return models.Column{Name: name, SQLType: sqlType}
}

func nullable(name, sqlType string) models.Column {
	return models.Column{Name: name, SQLType: sqlType, Nullable: true}
}

func indexed(name, sqlType string) models.Column {
	return models.Column{Name: name, SQLType: sqlType, Index: true}
}
