// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package maintenance

import (
	"context"
	"fmt"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/models"
	"github.com/tomtom215/azafea/internal/vendors"
)

// NormalizeVendors rewrites every vendor to its canonical name.
//
// A ping configuration whose normalized identity already exists is merged
// into it: its pings move to the existing configuration and the duplicate
// is deleted. Activations are updated in place.
func (e *Engine) NormalizeVendors(ctx context.Context) (*Stats, error) {
	total, err := e.countAll(ctx, models.TablePingConfiguration, models.TableActivation)
	if err != nil {
		return nil, err
	}
	stats := e.start(CommandNormalizeVendors, total)

	err = e.repo.PingConfigurationChunks(ctx, e.chunkSize, func(ctx context.Context, s database.Session, items []models.PingConfiguration) error {
		var changed, deleted int64
		for _, c := range items {
			change, err := e.normalizeConfiguration(ctx, s, c)
			if err != nil {
				return err
			}
			switch change {
			case vendorUpdated:
				changed++
			case vendorMerged:
				deleted++
			}
		}
		stats.Scanned += int64(len(items))
		stats.Changed += changed
		stats.Deleted += deleted
		e.chunkDone(stats, models.TablePingConfiguration)
		return nil
	})
	if err != nil {
		return e.finish(stats, err)
	}

	err = e.repo.VendorChunks(ctx, models.TableActivation, e.chunkSize, func(ctx context.Context, s database.Session, items []database.VendorRow) error {
		var changed int64
		for _, r := range items {
			vendor := vendors.Normalize(r.Vendor)
			if vendor == r.Vendor {
				continue
			}
			if err := s.UpdateVendor(ctx, models.TableActivation, r.ID, vendor); err != nil {
				return err
			}
			changed++
		}
		stats.Scanned += int64(len(items))
		stats.Changed += changed
		e.chunkDone(stats, models.TableActivation)
		return nil
	})
	return e.finish(stats, err)
}

type vendorChange int

const (
	vendorUnchanged vendorChange = iota
	vendorUpdated
	vendorMerged
)

func (e *Engine) normalizeConfiguration(ctx context.Context, s database.Session, c models.PingConfiguration) (vendorChange, error) {
	vendor := vendors.Normalize(c.Vendor)
	if vendor == c.Vendor {
		return vendorUnchanged, nil
	}

	existing, found, err := s.FindPingConfiguration(ctx, c.Image, vendor, c.Product, c.DualBoot, c.ID)
	if err != nil {
		return vendorUnchanged, err
	}
	if !found {
		if err := s.UpdateVendor(ctx, models.TablePingConfiguration, c.ID, vendor); err != nil {
			return vendorUnchanged, err
		}
		return vendorUpdated, nil
	}

	moved, err := s.MovePings(ctx, c.ID, existing)
	if err != nil {
		return vendorUnchanged, fmt.Errorf("failed to merge ping configuration %d into %d: %w", c.ID, existing, err)
	}
	if err := s.DeleteByID(ctx, models.TablePingConfiguration, c.ID); err != nil {
		return vendorUnchanged, err
	}
	e.log.Debug().
		Int64("from", c.ID).
		Int64("into", existing).
		Int64("pings_moved", moved).
		Str("vendor", vendor).
		Msg("Merged duplicate ping configuration")
	return vendorMerged, nil
}
