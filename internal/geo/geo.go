// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package geo validates the location data carried by activation and ping
// submissions: ISO 3166 country codes and rounded coordinates.
package geo

import (
	"math"
	"strings"
	"sync"

	"github.com/biter777/countries"
)

var (
	tablesOnce sync.Once
	alpha2     map[string]struct{}
	alpha3To2  map[string]string
)

func loadTables() {
	tablesOnce.Do(func() {
		all := countries.All()
		alpha2 = make(map[string]struct{}, len(all))
		alpha3To2 = make(map[string]string, len(all))
		for _, c := range all {
			a2, a3 := c.Alpha2(), c.Alpha3()
			if len(a2) != 2 || len(a3) != 3 {
				continue
			}
			alpha2[a2] = struct{}{}
			alpha3To2[a3] = a2
		}
	})
}

// Alpha3ToAlpha2 maps an upper-case ISO 3166-1 alpha-3 code to alpha-2.
func Alpha3ToAlpha2(code string) (string, bool) {
	loadTables()
	a2, ok := alpha3To2[code]
	return a2, ok
}

// ValidCountry reports whether code is an upper-case ISO 3166-1 alpha-2 or
// alpha-3 code. Both lengths are accepted so that legacy clients can keep
// submitting alpha-3 codes; the transform-countries sweep converts them later.
func ValidCountry(code string) bool {
	loadTables()
	if code != strings.ToUpper(code) {
		return false
	}
	switch len(code) {
	case 2:
		_, ok := alpha2[code]
		return ok
	case 3:
		_, ok := alpha3To2[code]
		return ok
	}
	return false
}

// ValidCoordinate reports whether f lies on the anonymized grid used for
// locations: f == floor(f) + 0.5. The same rule applies to latitude and
// longitude.
func ValidCoordinate(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f == math.Floor(f)+0.5
}

// ValidLatitude additionally bounds f to [-90, 90].
func ValidLatitude(f float64) bool {
	return ValidCoordinate(f) && f >= -90 && f <= 90
}

// ValidLongitude additionally bounds f to [-180, 180].
func ValidLongitude(f float64) bool {
	return ValidCoordinate(f) && f >= -180 && f <= 180
}
