// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type testPayload struct {
	Vendor    string   `json:"vendor" validate:"nonblank"`
	Release   string   `json:"release" validate:"required"`
	Count     int64    `json:"count" validate:"gte=0"`
	Country   *string  `json:"country,omitempty" validate:"omitempty,country"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,halfint"`
	Untagged  string   `validate:"omitempty,min=2"`
	Internal  string   `json:"-"`
	Longitude *float64 `json:"longitude" validate:"omitempty,halfint"`
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func valid() testPayload {
	return testPayload{Vendor: "Endless", Release: "3.7.0", Count: 1}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*testPayload)
		wantFields []string
	}{
		{"valid", func(*testPayload) {}, nil},
		{"alpha-3 country", func(p *testPayload) { p.Country = strPtr("FRA") }, nil},
		{"alpha-2 country", func(p *testPayload) { p.Country = strPtr("FR") }, nil},
		{"half integer coordinates", func(p *testPayload) {
			p.Latitude = floatPtr(48.5)
			p.Longitude = floatPtr(-2.5)
		}, nil},
		{"blank vendor", func(p *testPayload) { p.Vendor = "  " }, []string{"vendor"}},
		{"missing release", func(p *testPayload) { p.Release = "" }, []string{"release"}},
		{"negative count", func(p *testPayload) { p.Count = -1 }, []string{"count"}},
		{"bad country", func(p *testPayload) { p.Country = strPtr("XYZ") }, []string{"country"}},
		{"integer latitude", func(p *testPayload) { p.Latitude = floatPtr(48) }, []string{"latitude"}},
		{"untagged field", func(p *testPayload) { p.Untagged = "x" }, []string{"Untagged"}},
		{"several", func(p *testPayload) {
			p.Release = ""
			p.Longitude = floatPtr(1.25)
		}, []string{"release", "longitude"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)

			err := ValidateStruct(&p)
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}

			var verr *RequestValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateStruct() = %v, want *RequestValidationError", err)
			}
			got := verr.Fields()
			if strings.Join(got, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("Fields() = %v, want %v", got, tt.wantFields)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	p := valid()
	p.Release = ""
	p.Country = strPtr("ZZZ")
	p.Latitude = floatPtr(10)

	err := ValidateStruct(&p)
	if err == nil {
		t.Fatal("ValidateStruct() = nil")
	}

	want := "release is required; " +
		"country must be an ISO 3166-1 alpha-2 or alpha-3 country code; " +
		"latitude must be an integer plus one half"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var verr *RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatal("error is not a *RequestValidationError")
	}
	first := verr.Errors()[0]
	if first.Field() != "release" || first.Tag() != "required" {
		t.Errorf("first error = %s/%s", first.Field(), first.Tag())
	}
}

func TestMinMaxMessages(t *testing.T) {
	type bounded struct {
		Name  string `json:"name" validate:"min=3,max=5"`
		Retry int    `json:"retry" validate:"max=2"`
	}

	err := ValidateStruct(&bounded{Name: "ab", Retry: 3})
	if err == nil {
		t.Fatal("ValidateStruct() = nil")
	}
	want := "name must be at least 3 characters; retry must be at most 2"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRequestValidationErrorEmpty(t *testing.T) {
	if got := (&RequestValidationError{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
}
