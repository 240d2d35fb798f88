// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package events

import (
	"fmt"
	"sort"

	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/models"
)

// oarsVersions are the accepted versions of the OARS content rating filter.
var oarsVersions = map[string]bool{"oars-1.0": true, "oars-1.1": true}

// parentalControlsKeys lists the required payload keys, their column and the
// type each value must have.
var parentalControlsKeys = []struct {
	key    string
	column string
	typ    *gvariant.Type
}{
	{"AppFilterIsWhitelist", "app_filter_is_whitelist", gvariant.TypeBool},
	{"AppFilter", "app_filter", sig("as")},
	{"OarsFilter", "oars_filter", sig("(sa{ss})")},
	{"AllowUserInstallation", "allow_user_installation", gvariant.TypeBool},
	{"AllowSystemInstallation", "allow_system_installation", gvariant.TypeBool},
	{"IsAdministrator", "is_administrator", gvariant.TypeBool},
	{"IsInitialSetup", "is_initial_setup", gvariant.TypeBool},
}

func parentalControlsColumns() []models.Column {
	return []models.Column{
		col("app_filter_is_whitelist", "boolean"),
		col("app_filter", "text[]"),
		col("oars_filter", "jsonb"),
		col("allow_user_installation", "boolean"),
		col("allow_system_installation", "boolean"),
		col("is_administrator", "boolean"),
		col("is_initial_setup", "boolean"),
	}
}

// buildParentalControlsChanged requires every key in parentalControlsKeys.
// Extra keys are ignored.
func buildParentalControlsChanged(payload gvariant.Value) (models.Fields, error) {
	values, err := gvariant.AsVariantMap(payload)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, k := range parentalControlsKeys {
		if _, ok := values[k.key]; !ok {
			missing = append(missing, k.key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing keys %v in %s", missing, gvariant.Print(payload))
	}

	fields := make(models.Fields, 0, len(parentalControlsKeys))
	for _, k := range parentalControlsKeys {
		v := values[k.key]
		if !v.Type().Equal(k.typ) {
			return nil, fmt.Errorf("%s must be of type %s, got %s (%s)", k.key, k.typ, gvariant.Print(v), v.Type())
		}

		var value interface{}
		switch k.key {
		case "AppFilter":
			value, err = gvariant.AsStrings(v)
		case "OarsFilter":
			value, err = oarsFilter(v.(gvariant.Tuple))
		default:
			value = bool(v.(gvariant.Bool))
		}
		if err != nil {
			return nil, err
		}
		fields = append(fields, models.Field{Name: k.column, Value: value})
	}
	return fields, nil
}

// oarsFilter validates an OARS (version, ratings) pair and returns the
// ratings as JSON.
func oarsFilter(pair gvariant.Tuple) ([]byte, error) {
	version := string(pair[0].(gvariant.String))
	if !oarsVersions[version] {
		return nil, fmt.Errorf("OarsFilter has unsupported version %q in %s", version, gvariant.Print(pair))
	}
	return jsonColumn(pair[1])
}
