// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package activation stores activation v1 records, sent once by a machine
// on its first boot.
//
// Country codes are checked against ISO 3166-1 and kept as sent, alpha-3
// included. Latitude and longitude, when present, must lie on the
// half-integer grid. The vendor is normalized and the image is split into
// its components; an image that does not parse is stored without them.
package activation
