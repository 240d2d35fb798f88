// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package maintenance

import (
	"context"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/geo"
)

// TransformCountriesAlpha3To2 rewrites three letter country codes to their
// two letter form with one UPDATE per distinct code. Unknown codes are kept.
//
// Scanned and Total count distinct codes, Changed counts rewritten rows.
func (e *Engine) TransformCountriesAlpha3To2(ctx context.Context) (*Stats, error) {
	codes := make(map[string][]string, len(database.CountryTables))
	var total int64
	for _, table := range database.CountryTables {
		c, err := e.repo.Alpha3Countries(ctx, table)
		if err != nil {
			return nil, err
		}
		codes[table] = c
		total += int64(len(c))
	}
	stats := e.start(CommandTransformCountries, total)

	for _, table := range database.CountryTables {
		for _, code := range codes[table] {
			stats.Scanned++
			alpha2, ok := geo.Alpha3ToAlpha2(code)
			if !ok {
				e.log.Warn().Str("table", table).Str("country", code).Msg("Keeping unknown alpha-3 country code")
				stats.Skipped++
				continue
			}
			n, err := e.repo.UpdateCountry(ctx, table, code, alpha2)
			if err != nil {
				return e.finish(stats, err)
			}
			stats.Changed += n
			e.log.Debug().Str("table", table).Str("from", code).Str("to", alpha2).Int64("rows", n).Msg("Rewrote country code")
		}
		e.chunkDone(stats, table)
	}
	return e.finish(stats, nil)
}
