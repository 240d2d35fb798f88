// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

/*
Package maintenance implements the offline sweeps run from the command line.

Every sweep walks its tables in chunks. Each chunk is read and rewritten in
its own transaction, so an interrupted sweep keeps the chunks it committed
and can simply be run again.

Sweeps:

  - NormalizeVendors rewrites vendor names to their canonical spelling,
    merging ping configurations that become duplicates.
  - ParseOldImages fills the parsed image columns of rows stored before
    image parsing existed, newest rows first.
  - TransformCountriesAlpha3To2 rewrites three letter country codes.
  - ReplayInvalid and ReplayUnknown dispatch stored metric events again
    against the current event registry.

Progress is logged after every chunk and exported through the
azafea_maintenance_* metrics.
*/
package maintenance
