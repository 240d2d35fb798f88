// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package maintenance

import (
	"context"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/imageid"
)

// ParseOldImages fills the parsed image columns left empty by older
// versions, newest rows first. Image ids that do not parse are logged and
// left alone.
func (e *Engine) ParseOldImages(ctx context.Context) (*Stats, error) {
	var total int64
	for _, target := range database.ImageTargets {
		n, err := e.repo.CountUnparsedImages(ctx, target)
		if err != nil {
			return nil, err
		}
		total += n
	}
	stats := e.start(CommandParseOldImages, total)

	for _, target := range database.ImageTargets {
		target := target
		err := e.repo.UnparsedImageChunks(ctx, target, e.chunkSize, func(ctx context.Context, s database.Session, items []database.ImageRow) error {
			var changed, skipped int64
			for _, r := range items {
				img, err := imageid.Parse(r.Image)
				if err != nil {
					e.log.Warn().Err(err).Str("table", target.Table).Int64("id", r.ID).Msg("Skipping unparseable image id")
					skipped++
					continue
				}
				if err := s.UpdateImage(ctx, target.Table, r.ID, img); err != nil {
					return err
				}
				changed++
			}
			stats.Scanned += int64(len(items))
			stats.Changed += changed
			stats.Skipped += skipped
			e.chunkDone(stats, target.Table)
			return nil
		})
		if err != nil {
			return e.finish(stats, err)
		}
	}
	return e.finish(stats, nil)
}
