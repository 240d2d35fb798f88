// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/azafea/internal/imageid"
	"github.com/tomtom215/azafea/internal/models"
)

// Store is the write surface used by queue handlers. All calls made through
// one Store belong to the same transaction.
type Store interface {
	// UpsertChannel returns the id of the channel with ch's identity,
	// creating it if needed.
	UpsertChannel(ctx context.Context, ch *models.Channel) (int64, error)

	// InsertRequest inserts req unless a request with the same fingerprint
	// exists. It returns the id of the stored request and whether it was
	// inserted by this call.
	InsertRequest(ctx context.Context, req *models.Request) (id int64, inserted bool, err error)

	// UpsertPingConfiguration returns the id of the configuration with cfg's
	// identity, creating it if needed.
	UpsertPingConfiguration(ctx context.Context, cfg *models.PingConfiguration) (int64, error)

	// InsertRow appends a row to its table.
	InsertRow(ctx context.Context, row models.Row) error
}

// Maintainer holds the row rewrites used by maintenance sweeps.
type Maintainer interface {
	// FindPingConfiguration looks up a configuration by identity, skipping
	// the row with id exclude.
	FindPingConfiguration(ctx context.Context, image, vendor, product string, dualBoot bool, exclude int64) (int64, bool, error)

	// UpdateVendor rewrites the vendor column of one row.
	UpdateVendor(ctx context.Context, table string, id int64, vendor string) error

	// MovePings repoints every ping of configuration from to configuration
	// to and returns the number of pings moved.
	MovePings(ctx context.Context, from, to int64) (int64, error)

	// UpdateImage fills the parsed image columns of one row.
	UpdateImage(ctx context.Context, table string, id int64, img imageid.Image) error

	// DeleteByID deletes one row.
	DeleteByID(ctx context.Context, table string, id int64) error
}

// Session is a transaction. It must be ended by exactly one Commit or
// Rollback; later calls return ErrClosed.
type Session interface {
	Store
	Maintainer
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type txSession struct {
	tx     pgx.Tx
	closed bool
}

func (s *txSession) Commit(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *txSession) Rollback(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.tx.Rollback(ctx)
}

func (s *txSession) exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	tag, err := s.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *txSession) queryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return s.tx.QueryRow(ctx, sql, args...)
}

func (s *txSession) UpsertChannel(ctx context.Context, ch *models.Channel) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	site, err := json.Marshal(siteOrEmpty(ch.Site))
	if err != nil {
		return 0, fmt.Errorf("failed to encode channel site: %w", err)
	}

	args := append([]interface{}{ch.ImageID, string(site), ch.DualBoot, ch.Live}, ch.Image.Columns()...)
	var id int64
	if err := s.queryRow(ctx, upsertChannelSQL, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert channel %q: %w", ch.ImageID, err)
	}
	ch.ID = id
	return id, nil
}

func (s *txSession) InsertRequest(ctx context.Context, req *models.Request) (int64, bool, error) {
	if s.closed {
		return 0, false, ErrClosed
	}

	var id int64
	err := s.queryRow(ctx, insertRequestSQL,
		req.SHA512, req.ReceivedAt, req.AbsoluteTimestamp, req.RelativeTimestamp, req.ChannelID,
	).Scan(&id)
	switch {
	case err == nil:
		req.ID = id
		return id, true, nil
	case IsNoRows(err):
		if err := s.queryRow(ctx, selectRequestSQL, req.SHA512).Scan(&id); err != nil {
			return 0, false, fmt.Errorf("failed to load existing request %s: %w", req.SHA512, err)
		}
		req.ID = id
		return id, false, nil
	default:
		return 0, false, fmt.Errorf("failed to insert request: %w", err)
	}
}

func (s *txSession) UpsertPingConfiguration(ctx context.Context, cfg *models.PingConfiguration) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	args := append([]interface{}{cfg.Image, cfg.Vendor, cfg.Product, cfg.DualBoot}, cfg.ParsedImage.Columns()...)
	var id int64
	if err := s.queryRow(ctx, upsertPingConfigurationSQL, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert ping configuration: %w", err)
	}
	cfg.ID = id
	return id, nil
}

func (s *txSession) InsertRow(ctx context.Context, row models.Row) error {
	sql, args, err := insertSQL(row)
	if err != nil {
		return err
	}
	if _, err := s.exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", row.Table, err)
	}
	return nil
}

func (s *txSession) FindPingConfiguration(ctx context.Context, image, vendor, product string, dualBoot bool, exclude int64) (int64, bool, error) {
	if s.closed {
		return 0, false, ErrClosed
	}
	var id int64
	err := s.queryRow(ctx, findPingConfigurationSQL, image, vendor, product, dualBoot, exclude).Scan(&id)
	if IsNoRows(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up ping configuration: %w", err)
	}
	return id, true, nil
}

func (s *txSession) UpdateVendor(ctx context.Context, table string, id int64, vendor string) error {
	sql := fmt.Sprintf("UPDATE %s SET vendor = $1 WHERE id = $2", quote(table))
	if _, err := s.exec(ctx, sql, vendor, id); err != nil {
		return fmt.Errorf("failed to update vendor of %s %d: %w", table, id, err)
	}
	return nil
}

func (s *txSession) MovePings(ctx context.Context, from, to int64) (int64, error) {
	n, err := s.exec(ctx, movePingsSQL, to, from)
	if err != nil {
		return 0, fmt.Errorf("failed to move pings from configuration %d to %d: %w", from, to, err)
	}
	return n, nil
}

func (s *txSession) UpdateImage(ctx context.Context, table string, id int64, img imageid.Image) error {
	sql, args := updateImageSQL(table, id, img)
	if _, err := s.exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to update image of %s %d: %w", table, id, err)
	}
	return nil
}

func (s *txSession) DeleteByID(ctx context.Context, table string, id int64) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE id = $1", quote(table))
	if _, err := s.exec(ctx, sql, id); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", table, id, err)
	}
	return nil
}

func siteOrEmpty(site map[string]string) map[string]string {
	if site == nil {
		return map[string]string{}
	}
	return site
}
