// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/azafea/internal/models"
)

// VendorRow is the id and vendor of a row carrying a vendor column.
type VendorRow struct {
	ID     int64
	Vendor string
}

// ImageRow is the id and raw image id of a row carrying parsed image
// columns.
type ImageRow struct {
	ID    int64
	Image string
}

// ImageTarget names a table with parsed image columns and the column
// holding the raw image id.
type ImageTarget struct {
	Table  string
	Column string
}

// ImageTargets lists every table carrying parsed image columns.
var ImageTargets = []ImageTarget{
	{Table: models.TableChannel, Column: "image_id"},
	{Table: models.TablePingConfiguration, Column: "image"},
	{Table: models.TableActivation, Column: "image"},
	{Table: "image_version", Column: "image_id"},
}

// CountryTables lists the tables carrying a country code.
var CountryTables = []string{models.TableActivation, models.TablePing}

// PingConfigurationChunks walks every ping configuration by id.
func (db *DB) PingConfigurationChunks(ctx context.Context, size int, fn ChunkFunc[models.PingConfiguration]) error {
	return ChunkedQuery(ctx, db, ChunkQuery[models.PingConfiguration]{
		Table:   models.TablePingConfiguration,
		Columns: []string{"id", "image", "vendor", "product", "dualboot"},
		Size:    size,
		Scan: func(rows pgx.Rows) (models.PingConfiguration, error) {
			var c models.PingConfiguration
			err := rows.Scan(&c.ID, &c.Image, &c.Vendor, &c.Product, &c.DualBoot)
			return c, err
		},
		ID: func(c models.PingConfiguration) int64 { return c.ID },
	}, fn)
}

// VendorChunks walks the id and vendor of every row of table.
func (db *DB) VendorChunks(ctx context.Context, table string, size int, fn ChunkFunc[VendorRow]) error {
	return ChunkedQuery(ctx, db, ChunkQuery[VendorRow]{
		Table:   table,
		Columns: []string{"id", "vendor"},
		Size:    size,
		Scan: func(rows pgx.Rows) (VendorRow, error) {
			var r VendorRow
			err := rows.Scan(&r.ID, &r.Vendor)
			return r, err
		},
		ID: func(r VendorRow) int64 { return r.ID },
	}, fn)
}

// UnparsedImageChunks walks rows of target whose image columns were never
// filled, newest first. Rows with the unknown image are skipped.
func (db *DB) UnparsedImageChunks(ctx context.Context, target ImageTarget, size int, fn ChunkFunc[ImageRow]) error {
	return ChunkedQuery(ctx, db, ChunkQuery[ImageRow]{
		Table:   target.Table,
		Columns: []string{"id", target.Column},
		Where:   unparsedImageWhere(target),
		Args:    []interface{}{"unknown"},
		Size:    size,
		Reverse: true,
		Scan: func(rows pgx.Rows) (ImageRow, error) {
			var r ImageRow
			err := rows.Scan(&r.ID, &r.Image)
			return r, err
		},
		ID: func(r ImageRow) int64 { return r.ID },
	}, fn)
}

func unparsedImageWhere(target ImageTarget) string {
	return fmt.Sprintf("image_product IS NULL AND %s <> $1", quote(target.Column))
}

// StoredEventChunks walks an invalid or unknown event table. aggregate
// selects the aggregate column set; withError reads the error column of
// invalid tables.
func (db *DB) StoredEventChunks(ctx context.Context, table string, aggregate, withError bool, size int, fn ChunkFunc[models.StoredEvent]) error {
	cols := []string{"id", "channel_id", "os_version", "event_id", "payload_data"}
	if aggregate {
		cols = append(cols, "period_start", "count")
	} else {
		cols = append(cols, "occured_at")
	}
	if withError {
		cols = append(cols, "error")
	}

	return ChunkedQuery(ctx, db, ChunkQuery[models.StoredEvent]{
		Table:   table,
		Columns: cols,
		Size:    size,
		Scan: func(rows pgx.Rows) (models.StoredEvent, error) {
			var e models.StoredEvent
			dest := []interface{}{&e.ID, &e.ChannelID, &e.OSVersion, &e.EventID, &e.PayloadData}
			if aggregate {
				dest = append(dest, &e.PeriodStart, &e.Count)
			} else {
				dest = append(dest, &e.OccuredAt)
			}
			if withError {
				dest = append(dest, &e.Error)
			}
			err := rows.Scan(dest...)
			if !aggregate {
				e.OccuredAt = e.OccuredAt.UTC()
			}
			return e, err
		},
		ID: func(e models.StoredEvent) int64 { return e.ID },
	}, fn)
}

// Alpha3Countries returns the distinct three letter country codes of table.
func (db *DB) Alpha3Countries(ctx context.Context, table string) ([]string, error) {
	sql := fmt.Sprintf("SELECT DISTINCT country FROM %s WHERE char_length(country) = 3 ORDER BY country", quote(table))
	rows, err := db.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list alpha-3 countries of %s: %w", table, err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read alpha-3 countries of %s: %w", table, err)
	}
	return codes, nil
}

// UpdateCountry rewrites every occurrence of one country code in table and
// returns the number of rows changed.
func (db *DB) UpdateCountry(ctx context.Context, table, from, to string) (int64, error) {
	sql := fmt.Sprintf("UPDATE %s SET country = $1 WHERE country = $2", quote(table))
	tag, err := db.pool.Exec(ctx, sql, to, from)
	if err != nil {
		return 0, fmt.Errorf("failed to update country %s of %s: %w", from, table, err)
	}
	return tag.RowsAffected(), nil
}

// CountRows counts the rows of table, optionally filtered by where.
func (db *DB) CountRows(ctx context.Context, table, where string, args ...interface{}) (int64, error) {
	sql := "SELECT count(*) FROM " + quote(table)
	if where != "" {
		sql += " WHERE " + where
	}
	var n int64
	if err := db.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// CountUnparsedImages counts the rows UnparsedImageChunks would visit.
func (db *DB) CountUnparsedImages(ctx context.Context, target ImageTarget) (int64, error) {
	return db.CountRows(ctx, target.Table, unparsedImageWhere(target), "unknown")
}
