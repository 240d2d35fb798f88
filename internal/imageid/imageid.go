// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package imageid parses Endless OS image identifiers such as
// "eos-eos3.7-amd64-amd64.190419-225606.base" into their components.
package imageid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Unknown is the identifier clients report when the image is not known. It
// parses to an Image with every field nil.
const Unknown = "unknown"

// ErrInvalidImageID is wrapped by every ParseError.
var ErrInvalidImageID = errors.New("invalid image id")

// The trailing optional group holds the duplicated personality some
// releases wrote into their image ids, e.g. "....base.base". Parse checks
// that it repeats the personality.
var imagePattern = regexp.MustCompile(
	`^([^-.]+)-([^-]+)-([^-.]+)-([^-.]+)\.(\d{6}|\d{8,})-(\d{6})\.([^-.]+)(?:\.([^-.]+))?$`,
)

// Image holds the parsed components of an image identifier. Either every
// field is set or none is.
type Image struct {
	Product     *string
	Branch      *string
	Arch        *string
	Platform    *string
	Timestamp   *time.Time
	Personality *string
}

// IsZero reports whether no component is set, as for the "unknown" image.
func (i Image) IsZero() bool {
	return i.Product == nil
}

// ParseError describes an identifier that could not be parsed.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid image id %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrInvalidImageID }

// Parse splits an image identifier into its components.
func Parse(s string) (Image, error) {
	if s == Unknown {
		return Image{}, nil
	}

	m := imagePattern.FindStringSubmatch(s)
	if m == nil {
		return Image{}, &ParseError{Input: s, Reason: "does not match the expected format"}
	}
	if m[8] != "" && m[8] != m[7] {
		return Image{}, &ParseError{Input: s, Reason: fmt.Sprintf("trailing %q does not repeat personality %q", m[8], m[7])}
	}

	ts, err := parseTimestamp(m[5], m[6])
	if err != nil {
		return Image{}, &ParseError{Input: s, Reason: err.Error()}
	}

	return Image{
		Product:     &m[1],
		Branch:      &m[2],
		Arch:        &m[3],
		Platform:    &m[4],
		Timestamp:   &ts,
		Personality: &m[7],
	}, nil
}

func parseTimestamp(date, clock string) (time.Time, error) {
	if len(date) == 6 {
		date = "20" + date
	}

	n := len(date)
	year, err := strconv.Atoi(date[:n-4])
	if err != nil {
		return time.Time{}, fmt.Errorf("year %q: %w", date[:n-4], err)
	}
	month, _ := strconv.Atoi(date[n-4 : n-2])
	day, _ := strconv.Atoi(date[n-2:])
	hour, _ := strconv.Atoi(clock[0:2])
	minute, _ := strconv.Atoi(clock[2:4])
	second, _ := strconv.Atoi(clock[4:6])

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %02d out of range", month)
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("time %s out of range", clock)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if day < 1 || t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("day %02d out of range for %04d-%02d", day, year, month)
	}
	return t, nil
}

// Columns returns the components in column order: product, branch, arch,
// platform, image_timestamp, personality. Values are nil for the unknown
// image so they can be passed straight to a nullable insert.
func (i Image) Columns() []interface{} {
	if i.IsZero() {
		return []interface{}{nil, nil, nil, nil, nil, nil}
	}
	return []interface{}{*i.Product, *i.Branch, *i.Arch, *i.Platform, *i.Timestamp, *i.Personality}
}

// ColumnNames lists the columns written by Columns.
var ColumnNames = []string{"image_product", "image_branch", "image_arch", "image_platform", "image_timestamp", "image_personality"}
