// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package vendors canonicalizes the free-form hardware vendor strings reported
// by firmware (DMI sys_vendor) so that the same manufacturer is counted once.
package vendors

import (
	"sort"
	"strings"
)

// Normalize returns the canonical vendor name for v. Lookup is a
// case-insensitive whole-string match against the alias table; inputs not in
// the table are returned unchanged.
//
// Normalize is idempotent: Normalize(Normalize(v)) == Normalize(v).
func Normalize(v string) string {
	if canonical, ok := aliases[strings.ToLower(v)]; ok {
		return canonical
	}
	return v
}

// Canonical returns the sorted list of distinct canonical vendor names.
func Canonical() []string {
	seen := make(map[string]struct{}, len(aliases))
	for _, c := range aliases {
		seen[c] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
