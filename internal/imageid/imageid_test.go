// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package imageid

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input       string
		product     string
		branch      string
		arch        string
		platform    string
		timestamp   time.Time
		personality string
	}{
		{
			input:   "eos-eos3.7-amd64-amd64.190419-225606.base",
			product: "eos", branch: "eos3.7", arch: "amd64", platform: "amd64",
			timestamp:   time.Date(2019, 4, 19, 22, 56, 6, 0, time.UTC),
			personality: "base",
		},
		{
			input:   "eosinstaller-master-arm64-rpi4.20200801-010203.fr",
			product: "eosinstaller", branch: "master", arch: "arm64", platform: "rpi4",
			timestamp:   time.Date(2020, 8, 1, 1, 2, 3, 0, time.UTC),
			personality: "fr",
		},
		{
			input:   "eos-master-amd64-amd64.170101-000000.es.es",
			product: "eos", branch: "master", arch: "amd64", platform: "amd64",
			timestamp:   time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
			personality: "es",
		},
		{
			input:   "eos-master-amd64-nexthw.20160229-235959.pt_BR",
			product: "eos", branch: "master", arch: "amd64", platform: "nexthw",
			timestamp:   time.Date(2016, 2, 29, 23, 59, 59, 0, time.UTC),
			personality: "pt_BR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			img, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if *img.Product != tt.product {
				t.Errorf("Product = %q, want %q", *img.Product, tt.product)
			}
			if *img.Branch != tt.branch {
				t.Errorf("Branch = %q, want %q", *img.Branch, tt.branch)
			}
			if *img.Arch != tt.arch {
				t.Errorf("Arch = %q, want %q", *img.Arch, tt.arch)
			}
			if *img.Platform != tt.platform {
				t.Errorf("Platform = %q, want %q", *img.Platform, tt.platform)
			}
			if !img.Timestamp.Equal(tt.timestamp) || img.Timestamp.Location() != time.UTC {
				t.Errorf("Timestamp = %v, want %v", *img.Timestamp, tt.timestamp)
			}
			if *img.Personality != tt.personality {
				t.Errorf("Personality = %q, want %q", *img.Personality, tt.personality)
			}
		})
	}
}

func TestParseUnknown(t *testing.T) {
	t.Parallel()

	img, err := Parse("unknown")
	if err != nil {
		t.Fatalf("Parse(unknown) error: %v", err)
	}
	if !img.IsZero() {
		t.Errorf("expected all fields nil, got %+v", img)
	}
	for i, v := range img.Columns() {
		if v != nil {
			t.Errorf("Columns()[%d] = %v, want nil", i, v)
		}
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Unknown",
		"eos-master-amd64-amd64",
		"eos-master-amd64-amd64.1904191-225606.base",
		"eos-master-amd64-amd64.191319-225606.base",
		"eos-master-amd64-amd64.190230-225606.base",
		"eos-master-amd64-amd64.190419-245606.base",
		"eos-master-amd64-amd64.190419-225660.base",
		"eos-master-amd64-amd64.190419-225606.",
		"eos-master-amd64-amd64.190419-225606.base.base.base",
		"eos-master-amd64-amd64.190419-225606.base.foo",
		"eos-master-amd64-amd64.190419-225606.es.fr",
		"eos--amd64-amd64.190419-225606.base",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			img, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got %+v", input, img)
			}
			if !errors.Is(err, ErrInvalidImageID) {
				t.Errorf("error %v does not wrap ErrInvalidImageID", err)
			}
			if input != "" && !strings.Contains(err.Error(), input) {
				t.Errorf("error %q does not mention input", err)
			}
			if !img.IsZero() {
				t.Errorf("partial result returned: %+v", img)
			}
		})
	}
}

func TestParseLongDate(t *testing.T) {
	t.Parallel()

	img, err := Parse("eos-master-amd64-amd64.123450101-000000.base")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if img.Timestamp.Year() != 12345 {
		t.Errorf("Year = %d, want 12345", img.Timestamp.Year())
	}
}

func TestColumnsOrder(t *testing.T) {
	t.Parallel()

	img, err := Parse("eos-eos3.7-amd64-amd64.190419-225606.base")
	if err != nil {
		t.Fatal(err)
	}
	cols := img.Columns()
	if len(cols) != len(ColumnNames) {
		t.Fatalf("len(Columns()) = %d, want %d", len(cols), len(ColumnNames))
	}
	if cols[0] != "eos" || cols[5] != "base" {
		t.Errorf("unexpected column order: %v", cols)
	}
}
