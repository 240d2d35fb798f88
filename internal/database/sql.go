// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/azafea/internal/imageid"
	"github.com/tomtom215/azafea/internal/models"
)

var imageColumnList = strings.Join(imageid.ColumnNames, ", ")

var (
	upsertChannelSQL = fmt.Sprintf(`
INSERT INTO %s (image_id, site, dual_boot, live, %s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (image_id, site, dual_boot, live) DO UPDATE SET image_id = EXCLUDED.image_id
RETURNING id`, models.TableChannel, imageColumnList)

	insertRequestSQL = fmt.Sprintf(`
INSERT INTO %s (sha512, received_at, absolute_timestamp, relative_timestamp, channel_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (sha512) DO NOTHING
RETURNING id`, models.TableRequest)

	selectRequestSQL = fmt.Sprintf(`SELECT id FROM %s WHERE sha512 = $1`, models.TableRequest)

	upsertPingConfigurationSQL = fmt.Sprintf(`
INSERT INTO %s (image, vendor, product, dualboot, %s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (image, vendor, product, dualboot) DO UPDATE SET image = EXCLUDED.image
RETURNING id`, models.TablePingConfiguration, imageColumnList)

	findPingConfigurationSQL = fmt.Sprintf(`
SELECT id FROM %s
WHERE image = $1 AND vendor = $2 AND product = $3 AND dualboot = $4 AND id <> $5
ORDER BY id
LIMIT 1`, models.TablePingConfiguration)

	movePingsSQL = fmt.Sprintf(`UPDATE %s SET config_id = $1 WHERE config_id = $2`, models.TablePing)
)

// errEmptyRow is returned when a row without fields is inserted.
var errEmptyRow = errors.New("database: row has no fields")

// quote returns name as a quoted SQL identifier.
func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// placeholders returns "$from, $from+1, ..." for n parameters.
func placeholders(from, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%d", from+i)
	}
	return sb.String()
}

// insertSQL renders a parameterized INSERT for row.
func insertSQL(row models.Row) (string, []interface{}, error) {
	if row.Table == "" {
		return "", nil, errors.New("database: row has no table")
	}
	if len(row.Fields) == 0 {
		return "", nil, fmt.Errorf("%w: %s", errEmptyRow, row.Table)
	}

	cols := make([]string, len(row.Fields))
	for i, f := range row.Fields {
		cols[i] = quote(f.Name)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(row.Table), strings.Join(cols, ", "), placeholders(1, len(cols)))
	return sql, row.Fields.Values(), nil
}

// updateImageSQL renders the UPDATE that fills the parsed image columns.
func updateImageSQL(table string, id int64, img imageid.Image) (string, []interface{}) {
	sets := make([]string, len(imageid.ColumnNames))
	for i, name := range imageid.ColumnNames {
		sets[i] = fmt.Sprintf("%s = $%d", name, i+1)
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		quote(table), strings.Join(sets, ", "), len(sets)+1)
	return sql, append(img.Columns(), id)
}
